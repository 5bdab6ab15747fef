package integrators

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/corona/internal/dynamo"
)

// Order selects one member of the explicit Runge-Kutta family.
type Order int

const (
	Euler    Order = 1
	Midpoint Order = 2
	Kutta3   Order = 3
	RK4      Order = 4
)

// DefaultOrder is the order used by Integrate.
const DefaultOrder = RK4

type orderInfo struct {
	name   string
	stages int
}

var orderTable = [...]orderInfo{
	Euler:    {"euler", 1},
	Midpoint: {"midpoint", 2},
	Kutta3:   {"rk3", 3},
	RK4:      {"rk4", 4},
}

// Orders lists the supported orders, lowest first.
func Orders() []Order {
	return []Order{Euler, Midpoint, Kutta3, RK4}
}

func (o Order) Valid() bool {
	return o >= Euler && o <= RK4
}

// Validate returns *dynamo.UnsupportedOrderError for orders outside 1..4.
func (o Order) Validate() error {
	if !o.Valid() {
		return &dynamo.UnsupportedOrderError{Order: int(o)}
	}
	return nil
}

func (o Order) String() string {
	if !o.Valid() {
		return fmt.Sprintf("order(%d)", int(o))
	}
	return orderTable[o].name
}

// Stages is the number of derivative evaluations per step.
func (o Order) Stages() int {
	if !o.Valid() {
		return 0
	}
	return orderTable[o].stages
}

// ParseOrder accepts a digit ("4") or a method name ("rk4", "euler").
func ParseOrder(s string) (Order, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		o := Order(n)
		return o, o.Validate()
	}
	for _, o := range Orders() {
		if orderTable[o].name == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnsupportedOrder, s)
}
