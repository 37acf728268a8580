package window

// Key represents a keyboard key.
type Key int

const (
	KeyUnknown Key = iota

	KeyEscape
	KeySpace
	KeyEnter
	KeyR

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	keyCount
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeySpace:
		return "Space"
	case KeyEnter:
		return "Enter"
	case KeyR:
		return "R"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	default:
		return "Unknown"
	}
}

// KeyState represents the state of a keyboard key.
type KeyState int

const (
	// KeyStatePressed indicates the key was pressed this frame
	KeyStatePressed KeyState = iota
	// KeyStateDown indicates the key is currently down
	KeyStateDown
	// KeyStateReleased indicates the key was released this frame
	KeyStateReleased
	// KeyStateUp indicates the key is currently up
	KeyStateUp
)

// IsDown returns true if the key state indicates the key is currently down.
func (ks KeyState) IsDown() bool {
	return ks == KeyStatePressed || ks == KeyStateDown
}

// KeyTracker derives per-frame key states from down/up samples taken once
// per Poll.
type KeyTracker struct {
	prev [keyCount]bool
	cur  [keyCount]bool
}

func (t *KeyTracker) Sample(down func(Key) bool) {
	t.prev = t.cur
	for k := Key(1); k < keyCount; k++ {
		t.cur[k] = down(k)
	}
}

func (t *KeyTracker) State(k Key) KeyState {
	if k <= KeyUnknown || k >= keyCount {
		return KeyStateUp
	}
	switch {
	case t.cur[k] && !t.prev[k]:
		return KeyStatePressed
	case t.cur[k]:
		return KeyStateDown
	case t.prev[k]:
		return KeyStateReleased
	default:
		return KeyStateUp
	}
}
