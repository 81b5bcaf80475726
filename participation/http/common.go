package http

import "github.com/programme-lv/participation/participation"

type File struct {
	FileName    string `json:"fileName"`
	FileContent string `json:"fileContent"`
}

type DecisionDetails struct {
	FaceParticipation bool `json:"faceParticipation"`
	NameParticipation bool `json:"nameParticipation"`
}

type Decision struct {
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	ClassDate     string          `json:"classDate"`
	Participation bool            `json:"participation"`
	Details       DecisionDetails `json:"details"`
}

type Record struct {
	Email         string `json:"email"`
	ClassDate     string `json:"classDate"`
	Name          string `json:"name"`
	Participation bool   `json:"participation"`
}

func mapDecision(d *participation.Decision) Decision {
	return Decision{
		Name:          d.Name,
		Email:         d.Email,
		ClassDate:     d.ClassDate,
		Participation: d.Participation,
		Details: DecisionDetails{
			FaceParticipation: d.FaceParticipation,
			NameParticipation: d.NameParticipation,
		},
	}
}

func mapRecord(r *participation.Record) Record {
	return Record{
		Email:         r.Email,
		ClassDate:     r.ClassDate,
		Name:          r.Name,
		Participation: r.Participation,
	}
}
