package entities

import "strings"

// Stat names one of the six base stat columns.
type Stat string

// Base stat columns, named as they appear in the source data.
const (
	StatHP      Stat = "HP"
	StatAttack  Stat = "Attack"
	StatDefense Stat = "Defense"
	StatSpAtk   Stat = "Sp. Atk"
	StatSpDef   Stat = "Sp. Def"
	StatSpeed   Stat = "Speed"
)

// StatOrder is the canonical column order of Stats.
var StatOrder = [6]Stat{StatHP, StatAttack, StatDefense, StatSpAtk, StatSpDef, StatSpeed}

// PowerWeights weight each stat in StatOrder for the power score.
// Offensive stats weigh more.
var PowerWeights = [6]float64{1.0, 1.3, 1.2, 1.4, 1.3, 1.1}

// Stats holds the six base stats in StatOrder.
type Stats [6]float64

// Get returns the value of a single stat.
func (s Stats) Get(stat Stat) float64 {
	for i, name := range StatOrder {
		if name == stat {
			return s[i]
		}
	}
	return 0
}

// Vector returns the stats as a float32 slice in StatOrder.
func (s Stats) Vector() []float32 {
	v := make([]float32, len(s))
	for i, x := range s {
		v[i] = float32(x)
	}
	return v
}

// Derived holds the values computed from a stat line.
type Derived struct {
	Total float64
	Power float64
}

// ComputeDerived returns the unweighted sum and the weighted power score.
func ComputeDerived(s Stats) Derived {
	var d Derived
	for i, v := range s {
		d.Total += v
		d.Power += v * PowerWeights[i]
	}
	return d
}

// ParseStat resolves a stat column name, ignoring case and surrounding space.
// "SpAtk", "sp_atk" and "Sp. Atk" all resolve to StatSpAtk.
func ParseStat(name string) (Stat, bool) {
	key := statKey(name)
	for _, s := range StatOrder {
		if statKey(string(s)) == key {
			return s, true
		}
	}
	return "", false
}

func statKey(name string) string {
	r := strings.NewReplacer(" ", "", ".", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(name)))
}
