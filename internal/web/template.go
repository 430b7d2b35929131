package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/gauge-display/internal/logic"
	"github.com/sweeney/gauge-display/internal/status"
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
	"gaugeValue": func(g logic.GaugeStatus) string {
		if !g.Seen {
			return "—"
		}
		return fmt.Sprintf("%d", g.Value)
	},
	"sinceLast": func(st logic.Status) string {
		if !st.Received {
			return "never"
		}
		return fmt.Sprintf("%dms ago", uint32(st.SinceLast))
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Gauge Display</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.visible { color: green; font-weight: bold; }
.hidden { color: #888; }
.blanked { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Gauge Display</h1>

<h2>Panel</h2>
<table>
<tr><th>Display</th><td class="{{if .Controller.Blanked}}blanked{{else}}visible{{end}}">{{if .Controller.Blanked}}BLANKED{{else}}ACTIVE{{end}}</td></tr>
<tr><th>Boot screen dismissed</th><td>{{if .Controller.Received}}yes{{else}}no{{end}}</td></tr>
<tr><th>Last telemetry</th><td>{{sinceLast .Controller}}</td></tr>
</table>

<h2>Gauges</h2>
<table>
<tr><th>CPU Temperature</th><td class="{{if .Controller.Temp.Hidden}}hidden{{else}}visible{{end}}">{{gaugeValue .Controller.Temp}}{{if .Controller.Temp.Hidden}} (hidden){{end}}</td></tr>
<tr><th>CPU Load</th><td class="{{if .Controller.Load.Hidden}}hidden{{else}}visible{{end}}">{{gaugeValue .Controller.Load}}{{if .Controller.Load.Hidden}} (hidden){{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Telemetry</th><td>{{.Config.Source}}{{if eq .Config.Source "serial"}} ({{.Config.SerialDevice}}){{else}} ({{.Config.TelemetryTopic}}){{end}}</td></tr>
<tr><th>Dropped samples</th><td>{{.DroppedSamples}}</td></tr>
</table>

<h2>Counts</h2>
<table>
<tr><th>Samples</th><td>{{.Controller.Counts.Samples}}</td></tr>
<tr><th>Temp hides / shows</th><td>{{.Controller.Counts.Temp.Hides}} / {{.Controller.Counts.Temp.Shows}}</td></tr>
<tr><th>Load hides / shows</th><td>{{.Controller.Counts.Load.Hides}} / {{.Controller.Counts.Load.Shows}}</td></tr>
<tr><th>Blanks / restores</th><td>{{.Controller.Counts.Blanks}} / {{.Controller.Counts.Restores}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Hide timeout</th><td>{{.Config.HideTimeoutMs}}ms</td></tr>
<tr><th>Blank timeout</th><td>{{.Config.BlankTimeoutMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
