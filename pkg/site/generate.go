package site

import "io/fs"

// The reveal slider runs as WebAssembly. Rebuild it after changing
// pkg/reveal, then rebuild the binary so the new module is embedded.
//go:generate env GOOS=js GOARCH=wasm go build -trimpath -ldflags=-s -o static/js/reveal.wasm ../../cmd/revealwasm
//go:generate sh -c "cp \"$(go env GOROOT)/lib/wasm/wasm_exec.js\" static/js/wasm_exec.js"

// RevealAssets are the static files the slider needs in the browser.
var RevealAssets = []string{"js/wasm_exec.js", "js/reveal.wasm"}

// MissingAssets returns the entries of RevealAssets absent from fsys.
// Without them the sliders stay at their server-rendered position.
func MissingAssets(fsys fs.FS) []string {
	var missing []string
	for _, name := range RevealAssets {
		if _, err := fs.Stat(fsys, name); err != nil {
			missing = append(missing, name)
		}
	}
	return missing
}
