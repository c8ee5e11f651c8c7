package game

import "fmt"

type AirQuality int

const (
	AirGreat AirQuality = iota
	AirGood
	AirMedium
	AirBad
	AirLethal
)

func (q AirQuality) String() string {
	switch q {
	case AirGreat:
		return "Great"
	case AirGood:
		return "Good"
	case AirMedium:
		return "Medium"
	case AirBad:
		return "Bad"
	case AirLethal:
		return "Lethal"
	default:
		return fmt.Sprintf("AirQuality(%d)", int(q))
	}
}

// Degrade moves one tier down, saturating at Lethal.
func (q AirQuality) Degrade() AirQuality {
	if q >= AirLethal {
		return AirLethal
	}
	return q + 1
}

// AirComposition holds gas amounts in volume units. Setters in this file
// never let an amount go below zero.
type AirComposition struct {
	O2  int `json:"o2"`
	CO2 int `json:"co2"`
	N2  int `json:"n2"`
	H2  int `json:"h2"`
	CH4 int `json:"ch4"`
	H2O int `json:"h2o"`
}

const (
	breatheO2PerPerson  = 2
	breatheCO2PerPerson = 2
	breatheH2OPerPerson = 1
)

func NewAirComposition(volume int) AirComposition {
	if volume <= 0 {
		panic(fmt.Sprintf("air composition needs a positive volume, got %d", volume))
	}
	return AirComposition{
		O2:  volume * 21 / 100,
		N2:  volume * 78 / 100,
		CO2: volume / 100,
		H2O: volume / 100,
	}
}

// Volume excludes water vapour.
func (a AirComposition) Volume() int {
	return a.O2 + a.CO2 + a.N2 + a.H2 + a.CH4
}

func (a AirComposition) AirQuality() AirQuality {
	volume := float64(a.Volume())
	if volume <= 0 {
		return AirLethal
	}
	quality := AirGreat

	co2 := float64(a.CO2) / volume
	if co2 > 0.05 {
		quality = quality.Degrade()
		if co2 > 0.15 {
			quality = AirBad
			if co2 > 0.20 {
				return AirLethal
			}
		}
	}

	o2 := float64(a.O2) / volume
	if o2 < 0.20 {
		quality = quality.Degrade()
		if o2 < 0.10 {
			return AirLethal
		}
	}

	h2 := float64(a.H2) / volume
	if h2 > 0.10 || a.CH4 > 5 {
		quality = quality.Degrade()
		if h2 > 0.20 || a.CH4 > 10 {
			return AirLethal
		}
	}

	return quality
}

// NeedsOxygen returns how much O2 is missing to reach 22% of the volume.
func (a AirComposition) NeedsOxygen() int {
	volume := a.Volume()
	if volume <= 0 {
		return 0
	}
	if float64(a.O2)/float64(volume) >= 0.22 {
		return 0
	}
	return max(0, volume*22/100-a.O2)
}

// MergeWith injects outside air split 70% N2 / 30% O2.
func (a *AirComposition) MergeWith(amount int) {
	if amount <= 0 {
		return
	}
	a.N2 += amount * 70 / 100
	a.O2 += amount * 30 / 100
}

// FilterCO2 scrubs qty only while CO2 exceeds ten times qty.
func (a *AirComposition) FilterCO2(qty int) bool {
	if qty <= 0 || a.CO2 <= qty*10 {
		return false
	}
	a.CO2 -= qty
	return true
}

// Breathe converts oxygen for people breathing for one accounting tick and
// returns the oxygen actually consumed.
func (a *AirComposition) Breathe(people int) int {
	if people <= 0 {
		return 0
	}
	consumed := min(a.O2, people*breatheO2PerPerson)
	a.O2 -= consumed
	a.CO2 += people * breatheCO2PerPerson
	a.H2O += people * breatheH2OPerPerson
	return consumed
}

func (a *AirComposition) AddO2(amount int) {
	a.O2 = max(0, a.O2+amount)
}

// Clamp floors every gas at zero. Accounting applies it before each tick.
func (a *AirComposition) Clamp() {
	a.O2 = max(0, a.O2)
	a.CO2 = max(0, a.CO2)
	a.N2 = max(0, a.N2)
	a.H2 = max(0, a.H2)
	a.CH4 = max(0, a.CH4)
	a.H2O = max(0, a.H2O)
}
