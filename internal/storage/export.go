package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run    RunMetadata  `json:"run"`
	Steps  int          `json:"samples"`
	Times  []float64    `json:"times"`
	Bodies [][]BodyPath `json:"bodies"`
	Energy []float64    `json:"energy"`
}

// BodyPath is one sampled state of a single body.
type BodyPath struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

func NewExportData(meta *RunMetadata, traj *Trajectory) ExportData {
	data := ExportData{
		Run:    *meta,
		Steps:  traj.Len(),
		Times:  traj.Times,
		Bodies: make([][]BodyPath, traj.Bodies),
		Energy: traj.Energy,
	}
	for i := range data.Bodies {
		path := make([]BodyPath, 0, traj.Len())
		for _, row := range traj.States {
			k := i * 4
			if k+3 >= len(row) {
				break
			}
			path = append(path, BodyPath{X: row[k], Y: row[k+1], VX: row[k+2], VY: row[k+3]})
		}
		data.Bodies[i] = path
	}
	return data
}

func ExportJSON(path string, meta *RunMetadata, traj *Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, traj)
}

func WriteJSON(w io.Writer, meta *RunMetadata, traj *Trajectory) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, traj))
}
