package view

import _ "embed"

// AppJS is the client script: live search, player controls and effect handling over /ws.
//
//go:embed assets/app.js
var AppJS []byte
