package models

import "github.com/san-kum/corona/internal/dynamo"

// SEIR adds a latent (exposed, not yet infectious) compartment to SIR.
type SEIR struct {
	Beta       float64
	Sigma      float64 // 1 / incubation period
	Gamma      float64
	Population float64
}

func NewSEIR() *SEIR {
	return &SEIR{Beta: DefaultBeta, Sigma: DefaultSigma, Gamma: DefaultGamma, Population: DefaultPopulation}
}

func (m *SEIR) StateDim() int { return 4 }

func (m *SEIR) Labels() []string {
	return []string{"Susceptible", "Exposed", "Infected", "Recovered"}
}

func (m *SEIR) DefaultState() dynamo.State {
	return dynamo.State{m.Population - DefaultInfected, 0, DefaultInfected, 0}
}

func (m *SEIR) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	if err := checkDim(x, 4); err != nil {
		return nil, err
	}
	s, e, i := x[0], x[1], x[2]
	exposure := m.Beta * s * i / m.Population
	onset := m.Sigma * e
	recovery := m.Gamma * i
	return dynamo.State{-exposure, exposure - onset, onset - recovery, recovery}, nil
}

func (m *SEIR) table() params {
	return params{
		"beta":       rate(&m.Beta),
		"sigma":      rate(&m.Sigma),
		"gamma":      rate(&m.Gamma),
		"population": positive(&m.Population),
	}
}

func (m *SEIR) Params() map[string]float64 { return m.table().values() }

func (m *SEIR) SetParam(name string, value float64) error { return m.table().set(name, value) }
