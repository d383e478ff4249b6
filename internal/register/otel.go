package register

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/OCAP2/carscene/internal/register"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type instruments struct {
	runs          metric.Int64Counter
	scenesCreated metric.Int64Counter
	declared      metric.Int64Counter
}

// newInstruments uses the global OTel meter, a no-op unless a provider is installed.
func newInstruments() (instruments, error) {
	m := meter()

	var (
		ins instruments
		err error
	)
	ins.runs, err = m.Int64Counter(
		"register.runs",
		metric.WithDescription("Registration runs that wrote the main scene"),
	)
	if err != nil {
		return ins, fmt.Errorf("creating runs counter: %w", err)
	}

	ins.scenesCreated, err = m.Int64Counter(
		"register.scenes.created",
		metric.WithDescription("Wrapper scenes written"),
	)
	if err != nil {
		return ins, fmt.Errorf("creating scenes counter: %w", err)
	}

	ins.declared, err = m.Int64Counter(
		"register.resources.declared",
		metric.WithDescription("ext_resource declarations added to the main scene"),
	)
	if err != nil {
		return ins, fmt.Errorf("creating declarations counter: %w", err)
	}

	return ins, nil
}
