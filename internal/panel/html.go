package panel

import (
	"embed"
	"html/template"
	"io"
	"io/fs"

	"github.com/systerlang/systerview/internal/nonce"
)

//go:embed assets
var assetsFS embed.FS

// Assets returns the bundled front-end files. This embedded tree is the
// complete allow-list of what the rendering surface may load; nothing
// outside it is ever served.
func Assets() fs.FS {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// The shell is static: one stylesheet, one script, nothing else. The CSP
// starts from default-src 'none' and opens only what those two need; the
// script must carry the per-render nonce to execute.
const shellHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="Content-Security-Policy"
      content="default-src 'none'; img-src 'self' data:; style-src 'self'; connect-src 'self' {{.WSOrigin}}; script-src 'nonce-{{.Nonce}}'">
<link rel="stylesheet" href="/assets/panel.css">
<title>Syster Diagrams</title>
</head>
<body>
<div id="app">
  <div id="toolbar">
    <span id="title">Syster Diagrams</span>
    <button id="refresh">Refresh</button>
  </div>
  <div id="status"></div>
  <div id="diagram"></div>
</div>
<script nonce="{{.Nonce}}" src="/assets/panel.js"></script>
</body>
</html>
`

var shellTmpl = template.Must(template.New("shell").Parse(shellHTML))

type shellData struct {
	Nonce    string
	WSOrigin string
}

// RenderShell writes the panel document with a fresh script nonce.
// wsOrigin is the websocket origin the front end may connect back to,
// e.g. "ws://localhost:7642".
func RenderShell(w io.Writer, wsOrigin string) error {
	return shellTmpl.Execute(w, shellData{
		Nonce:    nonce.New(),
		WSOrigin: wsOrigin,
	})
}
