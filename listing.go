package attic

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
)

const listingContentType = "text/html; charset=utf-8"

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head><title>Index of {{.Dir}}</title></head>
<body>
<h1>Index of {{.Dir}}</h1>
<ul>
{{- range .Entries}}
<li><a href="{{.Href}}">{{.Label}}</a></li>
{{- end}}
</ul>
</body>
</html>
`))

type listingData struct {
	Dir     string
	Entries []listingEntry
}

type listingEntry struct {
	Href  template.URL
	Label string
}

// RenderListing renders a browsable HTML index for a directory. Entries are
// emitted in the order given (the resolver returns them lexically sorted),
// so output is deterministic for a fixed directory state. Directories are
// labelled with a trailing slash.
func RenderListing(dirPath string, entries []ListEntry) ([]byte, error) {
	dir := "/"
	if dirPath != "." && dirPath != "" {
		dir = "/" + dirPath + "/"
	}

	data := listingData{Dir: dir, Entries: make([]listingEntry, 0, len(entries))}
	for _, e := range entries {
		label := e.Name
		href := url.PathEscape(e.Name)
		if e.IsDir {
			label += "/"
			href += "/"
		}
		data.Entries = append(data.Entries, listingEntry{
			Href:  template.URL(href),
			Label: label,
		})
	}

	var buf bytes.Buffer
	if err := listingTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render listing: %w", err)
	}
	return buf.Bytes(), nil
}
