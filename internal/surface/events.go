package surface

// ResizeListener is notified when the layout size or pixel ratio changes.
type ResizeListener interface {
	OnResize()
}

// PointerListener receives pointer moves in client coordinates.
type PointerListener interface {
	OnPointerMove(clientX, clientY float64)
}

// Events registers listeners. Removal is by identity: only the exact value
// that was added is removed.
type Events interface {
	AddResizeListener(l ResizeListener)
	RemoveResizeListener(l ResizeListener)
	AddPointerListener(l PointerListener)
	RemovePointerListener(l PointerListener)
}

// Listeners is a reusable Events implementation for hosts.
type Listeners struct {
	resize  []ResizeListener
	pointer []PointerListener
}

func (ls *Listeners) AddResizeListener(l ResizeListener) {
	for _, x := range ls.resize {
		if x == l {
			return
		}
	}
	ls.resize = append(ls.resize, l)
}

func (ls *Listeners) RemoveResizeListener(l ResizeListener) {
	for i, x := range ls.resize {
		if x == l {
			ls.resize = append(ls.resize[:i:i], ls.resize[i+1:]...)
			return
		}
	}
}

func (ls *Listeners) AddPointerListener(l PointerListener) {
	for _, x := range ls.pointer {
		if x == l {
			return
		}
	}
	ls.pointer = append(ls.pointer, l)
}

func (ls *Listeners) RemovePointerListener(l PointerListener) {
	for i, x := range ls.pointer {
		if x == l {
			ls.pointer = append(ls.pointer[:i:i], ls.pointer[i+1:]...)
			return
		}
	}
}

// DispatchResize calls every resize listener in registration order.
func (ls *Listeners) DispatchResize() {
	for _, l := range ls.resize {
		l.OnResize()
	}
}

// DispatchPointer forwards a pointer move to every pointer listener.
func (ls *Listeners) DispatchPointer(clientX, clientY float64) {
	for _, l := range ls.pointer {
		l.OnPointerMove(clientX, clientY)
	}
}

// Len returns the number of registered resize and pointer listeners.
func (ls *Listeners) Len() (resize, pointer int) {
	return len(ls.resize), len(ls.pointer)
}
