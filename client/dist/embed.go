package clientdist

import _ "embed"

// StrandJS is the hydration bootstrap served at "/_strand/client.js".
// It reads the dehydrated query state, binds the handlers the server
// marked with data-hid, and in development opens the reload socket.
//
//go:embed strand.js
var StrandJS []byte

// DevFlagJS is served at "/_strand/dev.js" in development. The shell
// transform injects it ahead of the bootstrap so the bootstrap knows
// to open the reload socket.
var DevFlagJS = []byte("window.__STRAND_DEV__ = true;\n")
