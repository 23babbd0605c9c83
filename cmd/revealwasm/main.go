//go:build js && wasm

// Command revealwasm drives the reveal sliders of the site in the browser.
//
// It is built into the site's static assets by
//
//	go generate ./pkg/site
package main

import (
	"syscall/js"

	"github.com/cruderly/wallie/pkg/reveal/dom"
)

func main() {
	controllers := dom.MountAll()

	done := make(chan struct{})
	var onHide js.Func
	onHide = js.FuncOf(func(this js.Value, args []js.Value) any {
		for _, c := range controllers {
			c.Close()
		}
		js.Global().Call("removeEventListener", "pagehide", onHide)
		onHide.Release()
		close(done)
		return nil
	})
	js.Global().Call("addEventListener", "pagehide", onHide)

	<-done
}
