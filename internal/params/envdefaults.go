package params

import (
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/r3b0rn/localsearch/internal/errkind"
)

// EnvDefaults mirrors spec.md §6's "recognized core parameters" table as a
// struct caarlos0/env can populate from the process environment, grounded
// on copyleftdev-TUNDR/internal/config/config.go's
// `env:"..." envDefault:"..."` tagging style. NewCoreRegistry seeds a
// Registry's Box defaults from these values, so a deployment can override
// e.g. SA__COOLING_RATE without touching CLI flags.
type EnvDefaults struct {
	Solver struct {
		InitTrials  int     `env:"SOLVER__INIT_TRIALS" envDefault:"1"`
		RandomState bool    `env:"SOLVER__RANDOM_STATE" envDefault:"true"`
		Timeout     float64 `env:"SOLVER__TIMEOUT" envDefault:"0"`
	}
	Runner struct {
		MaxIterations  int `env:"RUNNER__MAX_ITERATIONS" envDefault:"0"`
		MaxEvaluations int `env:"RUNNER__MAX_EVALUATIONS" envDefault:"0"`
	}
	HC struct {
		MaxIdleIterations int `env:"HC__MAX_IDLE_ITERATIONS" envDefault:"1000"`
	}
	SA struct {
		StartTemperature       float64       `env:"SA__START_TEMPERATURE" envDefault:"0"`
		MinTemperature         float64       `env:"SA__MIN_TEMPERATURE" envDefault:"0.01"`
		CoolingRate            float64       `env:"SA__COOLING_RATE" envDefault:"0.95"`
		MaxNeighborsSampled    int           `env:"SA__MAX_NEIGHBORS_SAMPLED" envDefault:"100"`
		MaxNeighborsAccepted   int           `env:"SA__MAX_NEIGHBORS_ACCEPTED" envDefault:"0"`
		NeighborsAcceptedRatio float64       `env:"SA__NEIGHBORS_ACCEPTED_RATIO" envDefault:"0"`
		TemperatureRange       float64       `env:"SA__TEMPERATURE_RANGE" envDefault:"0.01"`
		ExpectedMinTemperature float64       `env:"SA__EXPECTED_MIN_TEMPERATURE" envDefault:"0.01"`
		AllowedRunningTime     time.Duration `env:"SA__ALLOWED_RUNNING_TIME" envDefault:"0s"`
	}
	TS struct {
		MinTenure int `env:"TS__MIN_TENURE" envDefault:"3"`
		MaxTenure int `env:"TS__MAX_TENURE" envDefault:"7"`
	}
}

// LoadEnvDefaults populates an EnvDefaults from the process environment.
func LoadEnvDefaults() (*EnvDefaults, error) {
	d := &EnvDefaults{}
	if err := env.Parse(d); err != nil {
		return nil, errkind.Wrap(errkind.IncorrectParameterValue, "env", "LoadEnvDefaults", err)
	}
	return d, nil
}

// NewCoreRegistry builds a Registry pre-populated with every parameter of
// spec.md §6's core table, defaulted from d. A nil d is treated as a zero
// EnvDefaults, so every default is its type's zero value; the envDefault
// tags above take effect only through LoadEnvDefaults.
func NewCoreRegistry(d *EnvDefaults) *Registry {
	if d == nil {
		d = &EnvDefaults{}
	}
	r := NewRegistry()

	solver := r.Box("solver")
	solver.Int("init_trials", "Number of states sampled when random_state is true", &d.Solver.InitTrials)
	solver.Bool("random_state", "Use sampling vs greedy for the initial state", &d.Solver.RandomState)
	solver.Float64("timeout", "Wall-clock seconds; 0 = no timeout", &d.Solver.Timeout)

	runner := r.Box("runner")
	runner.Int("max_iterations", "Hard cap on loop iterations; 0 = unbounded", &d.Runner.MaxIterations)
	runner.Int("max_evaluations", "Hard cap on delta_cost calls; 0 = unbounded", &d.Runner.MaxEvaluations)

	hc := r.Box("hc")
	hc.Int("max_idle_iterations", "Idle bound for hill climbing", &d.HC.MaxIdleIterations)

	sa := r.Box("sa")
	sa.Float64("start_temperature", "If <= 0, auto-estimate from a 100-move probe", &d.SA.StartTemperature)
	sa.Float64("min_temperature", "Must be > 0", &d.SA.MinTemperature)
	sa.Float64("cooling_rate", "In (0,1)", &d.SA.CoolingRate)
	sa.Int("max_neighbors_sampled", "Per-temperature sample budget", &d.SA.MaxNeighborsSampled)
	sa.Int("max_neighbors_accepted", "Per-temperature accept budget", &d.SA.MaxNeighborsAccepted)
	sa.Float64("neighbors_accepted_ratio", "Time-based variant: MaxNeighborsAccepted = ratio * MaxNeighborsSampled", &d.SA.NeighborsAcceptedRatio)
	sa.Float64("temperature_range", "Time-based variant: target T(final)/T(start)", &d.SA.TemperatureRange)
	sa.Float64("expected_min_temperature", "Time-based variant: stop threshold", &d.SA.ExpectedMinTemperature)
	saAllowed := d.SA.AllowedRunningTime.Seconds()
	sa.Float64("allowed_running_time", "Time-based variant: wall-clock budget in seconds", &saAllowed)

	ts := r.Box("ts")
	ts.Int("min_tenure", "Tabu tenure range lower bound, inclusive", &d.TS.MinTenure)
	ts.Int("max_tenure", "Tabu tenure range upper bound, inclusive", &d.TS.MaxTenure)

	return r
}
