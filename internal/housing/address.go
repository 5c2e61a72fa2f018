package housing

import "fmt"

const (
	// WardPlots is the fixed number of plots in every ward.
	WardPlots = 60
	// MaxWards is the highest ward number a district can have.
	MaxWards = 24
)

// Address identifies a single plot.
type Address struct {
	Datacenter string
	Server     string
	District   District
	Ward       int
	Plot       int
}

// Valid reports whether ward and plot are in range.
func (a Address) Valid() bool {
	return a.Ward >= 1 && a.Ward <= MaxWards && a.Plot >= 1 && a.Plot <= WardPlots
}

func (a Address) String() string {
	return fmt.Sprintf("%s/%s %s ward %d plot %d",
		a.Datacenter, a.Server, a.District, a.Ward, a.Plot)
}
