package models

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
)

// ExerciseRecord is one extracted exercise. Sets and reps keep whatever
// numeric token the model emitted; no range or type normalization happens
// locally.
type ExerciseRecord struct {
	Exercise string      `json:"exercise"`
	Sets     json.Number `json:"sets"`
	Reps     json.Number `json:"reps"`
}

// WorkoutPlan is the ordered list of exercises as returned by the model.
// Duplicates are permitted; the plan may be empty.
type WorkoutPlan []ExerciseRecord

// CSV encodes the plan with an exercise,sets,reps header and no index
// column.
func (p WorkoutPlan) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"exercise", "sets", "reps"}); err != nil {
		return nil, err
	}
	for _, rec := range p {
		if err := w.Write([]string{rec.Exercise, rec.Sets.String(), rec.Reps.String()}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IndentedJSON encodes the plan as a 2-space-indented array.
func (p WorkoutPlan) IndentedJSON() ([]byte, error) {
	if p == nil {
		p = WorkoutPlan{}
	}
	return json.MarshalIndent(p, "", "  ")
}
