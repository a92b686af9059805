package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/line-sensor/internal/status"
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
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"millimeters": func(tenths int32) string {
		return fmt.Sprintf("%.1f mm", float64(tenths)/10)
	},
	"sensorCells": func(reading uint8) []bool {
		// Leftmost sensor (bit 7) first, matching the physical array as
		// seen from behind the robot.
		cells := make([]bool, 8)
		for i := 0; i < 8; i++ {
			cells[i] = reading>>(7-i)&1 == 1
		}
		return cells
	},
	"bumpCells": func(mask byte) []bool {
		cells := make([]bool, 6)
		for i := 0; i < 6; i++ {
			cells[i] = mask>>(5-i)&1 == 1
		}
		return cells
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Line Sensor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.acquired { color: green; font-weight: bold; }
.lost { color: red; font-weight: bold; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.stale { color: orange; }
.cells { display: inline-flex; gap: 2px; }
.cell { width: 22px; height: 22px; border: 1px solid #888; display: inline-block; }
.cell.on { background: #333; }
.cell.off { background: #f5f5f5; }
.bumpcell { width: 16px; height: 16px; }
.bumpcell.on { background: #c00; }
</style>
</head>
<body>
<h1>Line Sensor</h1>

<table>
<tr>
  <th>Line</th>
  <td class="{{if eq (stateOrUnknown (printf "%s" .Line)) "ACQUIRED"}}acquired{{else if eq (stateOrUnknown (printf "%s" .Line)) "LOST"}}lost{{else}}unknown{{end}}">
    {{stateOrUnknown (printf "%s" .Line)}}
  </td>
</tr>
<tr>
  <th>Array (left &rarr; right)</th>
  <td><span class="cells">{{range sensorCells .Reading}}<span class="cell {{if .}}on{{else}}off{{end}}"></span>{{end}}</span></td>
</tr>
<tr>
  <th>Offset</th>
  <td>
    {{if .OffsetKnown}}{{millimeters .Offset}} ({{.Offset}} tenths){{if .OffsetStale}} <span class="stale">stale</span>{{end}}
    {{else}}&mdash;{{end}}
  </td>
</tr>
<tr>
  <th>Bump switches</th>
  <td><span class="cells">{{range bumpCells .BumpMask}}<span class="cell bumpcell {{if .}}on{{else}}off{{end}}"></span>{{end}}</span> ({{.BumpPresses}} presses)</td>
</tr>
<tr><th>Ready</th><td>{{.Baselined}}</td></tr>
<tr>
  <th>MQTT</th>
  <td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">
    {{if .MQTTConnected}}connected{{else}}disconnected{{end}} ({{.Config.Broker}})
  </td>
</tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
</table>

<table>
<tr><th>Acquired</th><td>{{.Counts.Acquired}}</td></tr>
<tr><th>Lost</th><td>{{.Counts.Lost}}</td></tr>
<tr><th>No-signal samples</th><td>{{.Counts.NoSignal}}</td></tr>
<tr><th>Samples</th><td>{{.Counts.Samples}}</td></tr>
</table>

<table>
<tr><th>Poll interval</th><td>{{.Config.PollMs}} ms</td></tr>
<tr><th>Decay wait</th><td>{{.Config.DecayWaitUs}} &micro;s</td></tr>
<tr><th>Confirm count</th><td>{{.Config.ConfirmCount}}</td></tr>
<tr><th>Heartbeat</th><td>{{.Config.HeartbeatMs}} ms</td></tr>
</table>

<p><a href="/index.json">index.json</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Printf("web: render template: %v", err)
	}
}
