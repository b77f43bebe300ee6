package protocol

/*
 * Licensed under LGPL-3.0.
 *
 * You can get a copy of the LGPL-3.0 License at
 *
 * https://www.gnu.org/licenses/lgpl-3.0.en.html
 *
 * @wcgcyx - https://github.com/wcgcyx
 */

import (
	"fmt"
	"strings"
)

// Hardfork is a named protocol upgrade. Hardforks are totally ordered.
type Hardfork int

const (
	Chainstart Hardfork = iota
	Homestead
	Dao
	TangerineWhistle
	SpuriousDragon
	Byzantium
	Constantinople
	Petersburg
	Istanbul
	MuirGlacier
	Berlin
	London
	ArrowGlacier
	GrayGlacier
	Paris
	Shanghai
	Cancun
)

var hardforkNames = []string{
	"chainstart",
	"homestead",
	"dao",
	"tangerineWhistle",
	"spuriousDragon",
	"byzantium",
	"constantinople",
	"petersburg",
	"istanbul",
	"muirGlacier",
	"berlin",
	"london",
	"arrowGlacier",
	"grayGlacier",
	"paris",
	"shanghai",
	"cancun",
}

// Latest is the most recent supported hardfork.
const Latest = Cancun

// String returns the name of the hardfork.
func (h Hardfork) String() string {
	if h < Chainstart || int(h) >= len(hardforkNames) {
		return fmt.Sprintf("hardfork(%d)", int(h))
	}
	return hardforkNames[h]
}

// ParseHardfork parses a hardfork by name, case insensitive.
// "frontier" and "merge" are accepted as aliases.
func ParseHardfork(name string) (Hardfork, error) {
	lower := strings.ToLower(name)
	switch lower {
	case "frontier":
		return Chainstart, nil
	case "merge":
		return Paris, nil
	}
	for i, n := range hardforkNames {
		if strings.ToLower(n) == lower {
			return Hardfork(i), nil
		}
	}
	return Chainstart, fmt.Errorf("unsupported hardfork %v", name)
}

// hardforkEIPs lists the EIPs that are activated by each hardfork.
// Only EIPs that the execution engine gates on are listed.
var hardforkEIPs = map[Hardfork][]int{
	Berlin:       {2565, 2718, 2929, 2930},
	London:       {1559, 3198, 3529, 3541},
	ArrowGlacier: {4345},
	GrayGlacier:  {5133},
	Paris:        {3675, 4399},
	Shanghai:     {3651, 3855, 3860, 4895},
	Cancun:       {1153, 4788, 4844, 5656, 6780, 7516},
}

// supportedExtraEIPs are EIPs that can be switched on on top of a hardfork.
var supportedExtraEIPs = map[int]bool{
	1153: true,
	2929: true,
	3074: true,
	3198: true,
	3529: true,
	3541: true,
	3651: true,
	3855: true,
	3860: true,
	4844: true,
	5656: true,
	6780: true,
	7516: true,
}
