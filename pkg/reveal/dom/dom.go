//go:build js && wasm

// Package dom hosts reveal controllers in a browser page through
// syscall/js.
//
// Markup contract (rendered by pkg/site):
//
//	<div data-reveal>
//	  <img data-reveal-before ...>
//	  <div data-reveal-after><img ...></div>
//	  <div data-reveal-handle>...</div>
//	</div>
package dom

import (
	"syscall/js"

	"github.com/cruderly/wallie/pkg/reveal"
)

// Selectors used to find slider parts.
const (
	SelectorRoot   = "[data-reveal]"
	SelectorAfter  = "[data-reveal-after]"
	SelectorHandle = "[data-reveal-handle]"
)

// target adapts a DOM node (element or window) to reveal.EventTarget.
type target struct {
	node js.Value
}

func (t target) Listen(ev reveal.Event, h reveal.Handler) func() {
	policy := policyFor(ev)
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			h(reveal.Input{})
			return nil
		}
		e := args[0]
		if policy.fromHandle && !insideHandle(e.Get("target")) {
			return nil
		}
		if policy.preventDefault {
			e.Call("preventDefault")
		}
		h(reveal.Input{X: pointerX(e)})
		return nil
	})

	opts := js.Global().Get("Object").New()
	opts.Set("passive", policy.passive)
	t.node.Call("addEventListener", string(ev), fn, opts)

	released := false
	return func() {
		if released {
			return
		}
		released = true
		t.node.Call("removeEventListener", string(ev), fn, opts)
		fn.Release()
	}
}

func insideHandle(node js.Value) bool {
	if !node.Truthy() || node.Get("closest").Type() != js.TypeFunction {
		return false
	}
	return node.Call("closest", SelectorHandle).Truthy()
}

// pointerX extracts clientX from a mouse or touch event.
func pointerX(e js.Value) float64 {
	if x := e.Get("clientX"); x.Type() == js.TypeNumber {
		return x.Float()
	}
	for _, list := range []string{"touches", "changedTouches"} {
		touches := e.Get(list)
		if touches.Truthy() && touches.Get("length").Int() > 0 {
			return touches.Index(0).Get("clientX").Float()
		}
	}
	return 0
}

// host is a reveal.Host for one slider element.
type host struct {
	root   js.Value
	window js.Value
}

func (h host) Container() reveal.EventTarget { return target{h.root} }
func (h host) Global() reveal.EventTarget    { return target{h.window} }

func (h host) Measure() reveal.Bounds {
	rect := h.root.Call("getBoundingClientRect")
	return reveal.Bounds{
		Left:  rect.Get("left").Float(),
		Width: rect.Get("width").Float(),
	}
}

// render returns a Renderer that keeps the clip and the handle in sync.
func render(root js.Value) reveal.Renderer {
	after := root.Call("querySelector", SelectorAfter)
	handle := root.Call("querySelector", SelectorHandle)
	return func(st reveal.State) {
		if after.Truthy() {
			after.Get("style").Set("clipPath", st.ClipInset())
		}
		if handle.Truthy() {
			handle.Get("style").Set("left", st.PositionPercent())
		}
		root.Get("dataset").Set("dragging", st.Dragging)
	}
}

// MountAll mounts a controller on every slider in the document and returns
// them. Callers close them on page hide.
func MountAll() []*reveal.Controller {
	doc := js.Global().Get("document")
	window := js.Global()
	nodes := doc.Call("querySelectorAll", SelectorRoot)

	controllers := make([]*reveal.Controller, 0, nodes.Get("length").Int())
	for i := 0; i < nodes.Get("length").Int(); i++ {
		root := nodes.Index(i)
		controllers = append(controllers, reveal.Mount(host{root: root, window: window}, render(root)))
	}
	return controllers
}
