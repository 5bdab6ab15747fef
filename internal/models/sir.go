package models

import "github.com/san-kum/corona/internal/dynamo"

const (
	DefaultPopulation = 1e6
	DefaultBeta       = 0.3
	DefaultGamma      = 0.1
	DefaultSigma      = 0.2
	DefaultInfected   = 10.0
)

// SIR is the Kermack-McKendrick model with frequency-dependent mixing.
type SIR struct {
	Beta       float64
	Gamma      float64
	Population float64
}

func NewSIR() *SIR {
	return &SIR{Beta: DefaultBeta, Gamma: DefaultGamma, Population: DefaultPopulation}
}

func (m *SIR) StateDim() int { return 3 }

func (m *SIR) Labels() []string { return []string{"Susceptible", "Infected", "Recovered"} }

func (m *SIR) DefaultState() dynamo.State {
	return dynamo.State{m.Population - DefaultInfected, DefaultInfected, 0}
}

func (m *SIR) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	if err := checkDim(x, 3); err != nil {
		return nil, err
	}
	s, i := x[0], x[1]
	infection := m.Beta * s * i / m.Population
	recovery := m.Gamma * i
	return dynamo.State{-infection, infection - recovery, recovery}, nil
}

func (m *SIR) table() params {
	return params{
		"beta":       rate(&m.Beta),
		"gamma":      rate(&m.Gamma),
		"population": positive(&m.Population),
	}
}

func (m *SIR) Params() map[string]float64 { return m.table().values() }

func (m *SIR) SetParam(name string, value float64) error { return m.table().set(name, value) }

// R0 is the basic reproduction number beta/gamma.
func (m *SIR) R0() float64 {
	if m.Gamma == 0 {
		return 0
	}
	return m.Beta / m.Gamma
}
