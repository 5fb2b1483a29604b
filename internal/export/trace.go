package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/brix/internal/analysis"
	"github.com/san-kum/brix/internal/rig"
)

// TraceData is the JSON form of one sampled joint channel.
type TraceData struct {
	Action  string    `json:"action"`
	Segment string    `json:"segment"`
	Channel string    `json:"channel"`
	Step    float64   `json:"step"`
	Samples int       `json:"samples"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Period  float64   `json:"period,omitempty"`
	Times   []float64 `json:"times"`
	Values  []float64 `json:"values"`
}

func NewTraceData(a rig.Action, s rig.Segment, c analysis.Channel, tr analysis.Trace) TraceData {
	d := TraceData{
		Action:  a.String(),
		Segment: s.String(),
		Channel: c.String(),
		Step:    tr.Step,
		Samples: tr.Len(),
		Times:   make([]float64, tr.Len()),
		Values:  tr.Values,
	}
	d.Min, d.Max = tr.Bounds()
	if p, err := tr.DominantPeriod(); err == nil {
		d.Period = p
	}
	for i := range d.Times {
		d.Times[i] = tr.Time(i)
	}
	return d
}

func WriteTraceJSON(w io.Writer, d TraceData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}

// WriteTracesCSV writes a time column followed by one column per trace.
// Every trace must share the first trace's sampling.
func WriteTracesCSV(w io.Writer, names []string, traces []analysis.Trace) error {
	if len(traces) == 0 || len(names) != len(traces) {
		return errors.New("export: need one name per trace")
	}
	n := traces[0].Len()
	for i, tr := range traces[1:] {
		if tr.Len() != n || tr.Step != traces[0].Step || tr.Start != traces[0].Start {
			return fmt.Errorf("export: trace %q sampled differently", names[i+1])
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}
	row := make([]string, len(traces)+1)
	for i := 0; i < n; i++ {
		row[0] = strconv.FormatFloat(traces[0].Time(i), 'f', 6, 64)
		for j, tr := range traces {
			row[j+1] = strconv.FormatFloat(tr.Values[i], 'f', 6, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
