package server

import (
	"html/template"

	"github.com/qnjualonzo/enkor/internal/session"
)

type pageData struct {
	Directions []session.Direction
	Direction  session.Direction
	Input      string
	Translated string
	Summarized string
	SourceLang string
	TargetLang string
	Notice     string
	Error      string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>enkor · {{.Direction.Label}}</title>
<style>
body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
textarea { width: 100%; min-height: 8rem; font: inherit; }
.row { display: flex; gap: .5rem; margin: .5rem 0; }
.notice { color: #a66300; }
.error { color: #b00020; }
.active { font-weight: bold; }
</style>
</head>
<body>
<h1>English ↔ Korean translate and summarize</h1>

<form method="post" action="/direction" class="row">
{{range .Directions}}<button type="submit" name="direction" value="{{.}}"{{if eq . $.Direction}} class="active" disabled{{end}}>{{.Label}}</button>
{{end}}</form>

{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
{{if .Error}}<p class="error">Error: {{.Error}}</p>{{end}}

<form method="post" action="/translate">
<label for="input">Input ({{.SourceLang}})</label>
<textarea id="input" name="input">{{.Input}}</textarea>
<div class="row">
<button type="submit">Translate</button>
<button type="submit" formaction="/reset">Reset All</button>
</div>
</form>

<label for="translated">Translation ({{.TargetLang}})</label>
<textarea id="translated" readonly>{{.Translated}}</textarea>

<form method="post" action="/summarize" class="row">
<button type="submit"{{if not .Translated}} disabled{{end}}>Summarize</button>
</form>

<label for="summarized">Summary ({{.TargetLang}})</label>
<textarea id="summarized" readonly>{{.Summarized}}</textarea>
</body>
</html>
`))
