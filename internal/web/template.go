package web

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"degrees": func(v float64) string {
		return fmt.Sprintf("%.1f °C", v)
	},
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f %%", v)
	},
	"stateClass": func(s fmt.Stringer) string {
		return strings.ToLower(strings.ReplaceAll(s.String(), "_", "-"))
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Trailer Monitor</title>
<style>
body { font-family: monospace; max-width: 640px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
h2 { font-size: 1.1em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.normal { color: green; }
.outside-limit { color: red; font-weight: bold; }
.inside-limit { color: orange; }
.unknown { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Trailer Monitor</h1>

<table>
<tr><th>Temperature</th><td>{{if .HaveReading}}{{degrees .Reading.Temperature}}{{else}}&mdash;{{end}}</td></tr>
<tr><th>Humidity</th><td>{{if .HaveReading}}{{percent .Reading.Humidity}}{{else}}&mdash;{{end}}</td></tr>
<tr><th>External power</th><td>{{if .Powered}}YES{{else}}NO (battery){{end}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}} ({{.Config.Broker}})</td></tr>
<tr><th>Journaled events</th><td>{{.JournalCount}}</td></tr>
</table>

<h2>Channels</h2>
<table>
<tr><th>Channel</th><td>State</td><td>Events</td><td>Latched</td></tr>
<tr><th>Temperature high</th><td class="{{stateClass .Channels.TempHigh.State}}">{{.Channels.TempHigh.State}}</td><td>{{.Channels.TempHigh.Events}}</td><td>{{.Channels.TempHigh.Latched}}</td></tr>
<tr><th>Temperature low</th><td class="{{stateClass .Channels.TempLow.State}}">{{.Channels.TempLow.State}}</td><td>{{.Channels.TempLow.Events}}</td><td>{{.Channels.TempLow.Latched}}</td></tr>
<tr><th>Humidity high</th><td class="{{stateClass .Channels.HumHigh.State}}">{{.Channels.HumHigh.State}}</td><td>{{.Channels.HumHigh.Events}}</td><td>{{.Channels.HumHigh.Latched}}</td></tr>
<tr><th>Humidity low</th><td class="{{stateClass .Channels.HumLow.State}}">{{.Channels.HumLow.State}}</td><td>{{.Channels.HumLow.Events}}</td><td>{{.Channels.HumLow.Latched}}</td></tr>
</table>

<p><a href="/index.json">status JSON</a> &middot; <a href="/config">config</a> &middot; <a href="/events">events</a></p>
</body>
</html>
`

// renderHTML writes the status page for the given snapshot.
func renderHTML(w io.Writer, snap status.Snapshot) {
	indexTmpl.Execute(w, snap)
}
