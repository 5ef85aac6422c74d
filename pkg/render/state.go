package render

import (
	"fmt"
	"io"
)

// DefaultClientScript is the path the bootstrap client is served from.
const DefaultClientScript = "/_strand/client.js"

// StateGlobal is the window property the dehydrated query cache is
// assigned to. The client bootstrap reads it back during hydration.
const StateGlobal = "__STRAND_STATE__"

// BootScripts describes the script tags appended after the rendered
// page markup: the dehydrated cache state and the bootstrap client.
type BootScripts struct {
	// State is the dehydrated query cache as JSON. Must come from
	// encoding/json with default HTML escaping so "</script>" cannot
	// appear inside the payload.
	State []byte

	// ClientScript is the path to the bootstrap client JavaScript.
	// Defaults to DefaultClientScript if empty.
	ClientScript string
}

// WriteBootScripts writes the state assignment and client script tag.
// The state script must precede the client script so hydration sees the
// cache before any handler binds.
func WriteBootScripts(w io.Writer, boot BootScripts) error {
	if len(boot.State) > 0 {
		if _, err := fmt.Fprintf(w, "<script>window.%s=%s;</script>\n", StateGlobal, boot.State); err != nil {
			return err
		}
	}

	clientPath := boot.ClientScript
	if clientPath == "" {
		clientPath = DefaultClientScript
	}
	_, err := fmt.Fprintf(w, `<script src="%s" defer></script>`+"\n", escapeAttr(clientPath))
	return err
}
