package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var ErrNoRun = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Scenario     string             `json:"scenario"`
	Timestamp    time.Time          `json:"timestamp"`
	Step         float64            `json:"step"`
	G            float64            `json:"g"`
	PreSimFrames int                `json:"pre_sim_frames"`
	TotalFrames  int                `json:"total_frames"`
	Bodies       int                `json:"bodies"`
	Output       string             `json:"output"`
	Elapsed      time.Duration      `json:"elapsed_ns"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and trajectory.csv into a new run directory
// and returns the run ID. ID and Timestamp of meta are filled in.
func (s *Store) Save(meta RunMetadata, traj *Trajectory) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(meta.Scenario, now)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	if traj != nil && meta.Bodies == 0 {
		meta.Bodies = traj.Bodies
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if traj != nil && traj.Len() > 0 {
		if err := writeTrajectory(w, traj); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// newRunDir creates <scenario>_<unix>; runs saved within the same second
// get a numeric suffix.
func (s *Store) newRunDir(scenario string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	if scenario == "" {
		scenario = "custom"
	}
	base := fmt.Sprintf("%s_%d", scenario, now.Unix())
	runID := base
	for n := 1; ; n++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, n)
	}
}

func writeTrajectory(w *csv.Writer, traj *Trajectory) error {
	header := []string{"time"}
	for i := 0; i < traj.Bodies; i++ {
		header = append(header,
			fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i),
			fmt.Sprintf("vx%d", i), fmt.Sprintf("vy%d", i))
	}
	header = append(header, "energy")
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range traj.Times {
		row := []string{strconv.FormatFloat(traj.Times[i], 'f', 6, 64)}
		for _, val := range traj.States[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 10, 64))
		}
		row = append(row, strconv.FormatFloat(traj.Energy[i], 'g', 12, 64))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{}
	if len(records) < 2 {
		return traj, nil
	}
	// time, 4 columns per body, energy
	traj.Bodies = (len(records[0]) - 2) / 4

	for _, record := range records[1:] {
		if len(record) != len(records[0]) {
			continue
		}
		vals := make([]float64, len(record))
		ok := true
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}
		traj.Times = append(traj.Times, vals[0])
		traj.States = append(traj.States, vals[1:len(vals)-1])
		traj.Energy = append(traj.Energy, vals[len(vals)-1])
	}

	return traj, nil
}
