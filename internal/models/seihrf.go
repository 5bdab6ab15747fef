package models

import "github.com/san-kum/corona/internal/dynamo"

const (
	DefaultHospitalized = 0.05
	DefaultDischarge    = 0.1
	DefaultFatality     = 0.2
)

// SEIHRF tracks hospital load and deaths on top of SEIR. A share Hosp of
// resolving infections is admitted to hospital; stays end at rate Rho, a
// share Fatality of them in death.
type SEIHRF struct {
	Beta       float64
	Sigma      float64
	Gamma      float64
	Hosp       float64
	Rho        float64
	Fatality   float64
	Population float64
}

func NewSEIHRF() *SEIHRF {
	return &SEIHRF{
		Beta:       DefaultBeta,
		Sigma:      DefaultSigma,
		Gamma:      DefaultGamma,
		Hosp:       DefaultHospitalized,
		Rho:        DefaultDischarge,
		Fatality:   DefaultFatality,
		Population: DefaultPopulation,
	}
}

func (m *SEIHRF) StateDim() int { return 6 }

func (m *SEIHRF) Labels() []string {
	return []string{"Susceptible", "Exposed", "Infected", "Hospitalized", "Recovered", "Fatalities"}
}

func (m *SEIHRF) DefaultState() dynamo.State {
	return dynamo.State{m.Population - DefaultInfected, 0, DefaultInfected, 0, 0, 0}
}

func (m *SEIHRF) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	if err := checkDim(x, 6); err != nil {
		return nil, err
	}
	s, e, i, h := x[0], x[1], x[2], x[3]

	exposure := m.Beta * s * i / m.Population
	onset := m.Sigma * e
	resolved := m.Gamma * i
	discharged := m.Rho * h

	return dynamo.State{
		-exposure,
		exposure - onset,
		onset - resolved,
		m.Hosp*resolved - discharged,
		(1-m.Hosp)*resolved + (1-m.Fatality)*discharged,
		m.Fatality * discharged,
	}, nil
}

func (m *SEIHRF) table() params {
	return params{
		"beta":       rate(&m.Beta),
		"sigma":      rate(&m.Sigma),
		"gamma":      rate(&m.Gamma),
		"hosp":       fraction(&m.Hosp),
		"rho":        rate(&m.Rho),
		"fatality":   fraction(&m.Fatality),
		"population": positive(&m.Population),
	}
}

func (m *SEIHRF) Params() map[string]float64 { return m.table().values() }

func (m *SEIHRF) SetParam(name string, value float64) error { return m.table().set(name, value) }
