package domain

import (
	"fmt"

	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

// playerMode gives uniform access to one play mode of a profile.
type playerMode struct {
	name string
	flag *bool
	min  **int
	max  **int
}

func modesOf(p *models.PlayerProfile) []playerMode {
	return []playerMode{
		{"online", &p.SupportsOnline, &p.OnlineMinPlayers, &p.OnlineMaxPlayers},
		{"local", &p.SupportsLocal, &p.LocalMinPlayers, &p.LocalMaxPlayers},
		{"physical", &p.SupportsPhysical, &p.PhysicalMinPlayers, &p.PhysicalMaxPlayers},
	}
}

// ValidatePlayerProfile checks the cross-field consistency rules every
// persisted title must satisfy: overall min >= 1, overall max >= min, a
// mode's bounds are set exactly when it is supported, mode min >= 1,
// mode max >= mode min, and no mode max exceeds the overall max.
func ValidatePlayerProfile(p models.PlayerProfile) error {
	if p.MinPlayers < 1 {
		return fmt.Errorf("%w: min players %d < 1", ErrInvalidPlayerProfile, p.MinPlayers)
	}
	if p.MaxPlayers < p.MinPlayers {
		return fmt.Errorf("%w: max players %d < min players %d", ErrInvalidPlayerProfile, p.MaxPlayers, p.MinPlayers)
	}

	for _, mode := range modesOf(&p) {
		min, max := *mode.min, *mode.max

		if !*mode.flag {
			if min != nil || max != nil {
				return fmt.Errorf("%w: %s bounds set without support", ErrInvalidPlayerProfile, mode.name)
			}
			continue
		}

		if min == nil || max == nil {
			return fmt.Errorf("%w: %s supported without bounds", ErrInvalidPlayerProfile, mode.name)
		}
		if *min < 1 {
			return fmt.Errorf("%w: %s min %d < 1", ErrInvalidPlayerProfile, mode.name, *min)
		}
		if *max < *min {
			return fmt.Errorf("%w: %s max %d < min %d", ErrInvalidPlayerProfile, mode.name, *max, *min)
		}
		if *max > p.MaxPlayers {
			return fmt.Errorf("%w: %s max %d exceeds overall max %d", ErrInvalidPlayerProfile, mode.name, *max, p.MaxPlayers)
		}
	}

	return nil
}

// ClampPlayerProfile rewrites a profile into the nearest consistent one:
// support flags implied by present mode maxima are raised, the overall range
// is extended (never truncated) to cover every mode maximum, and bounds of
// unsupported modes are cleared.
func ClampPlayerProfile(p models.PlayerProfile) models.PlayerProfile {
	out := p

	if out.MinPlayers < 1 {
		out.MinPlayers = 1
	}
	if out.MaxPlayers < out.MinPlayers {
		out.MaxPlayers = out.MinPlayers
	}

	for _, mode := range modesOf(&out) {
		min, max := PositiveCount(*mode.min), PositiveCount(*mode.max)

		if max != nil {
			*mode.flag = true
		}

		if !*mode.flag {
			*mode.min, *mode.max = nil, nil
			continue
		}

		if min == nil {
			min = intPtr(1)
		}
		if max == nil || *max < *min {
			max = intPtr(*min)
		}

		if *max > out.MaxPlayers {
			out.MaxPlayers = *max
		}

		*mode.min, *mode.max = min, max
	}

	return out
}

// SafePlayerProfile is the maximally safe fallback used when even a clamped
// profile cannot be persisted: single player, no modes.
func SafePlayerProfile() models.PlayerProfile {
	return models.PlayerProfile{MinPlayers: 1, MaxPlayers: 1}
}

// MergePlayerInfo folds provider- or connector-reported player knowledge into
// a profile. Per field the most specific non-nil value wins; an unknown value
// never overwrites a known one. Physical-play fields are only applied when
// allowPhysical is set, since generic knowledge-base providers report the
// flag indiscriminately for video games.
func MergePlayerInfo(profile models.PlayerProfile, info *PlayerInfo, allowPhysical bool) models.PlayerProfile {
	if info == nil {
		return profile
	}

	out := profile

	if v := PositiveCount(info.MinPlayers); v != nil {
		out.MinPlayers = *v
	}
	if v := PositiveCount(info.MaxPlayers); v != nil {
		out.MaxPlayers = *v
	}

	if info.SupportsOnline != nil {
		out.SupportsOnline = *info.SupportsOnline
	}
	if v := PositiveCount(info.OnlineMinPlayers); v != nil {
		out.OnlineMinPlayers = v
	}
	if v := PositiveCount(info.OnlineMaxPlayers); v != nil {
		out.OnlineMaxPlayers = v
	}

	if info.SupportsLocal != nil {
		out.SupportsLocal = *info.SupportsLocal
	}
	if v := PositiveCount(info.LocalMinPlayers); v != nil {
		out.LocalMinPlayers = v
	}
	if v := PositiveCount(info.LocalMaxPlayers); v != nil {
		out.LocalMaxPlayers = v
	}

	if allowPhysical {
		if info.SupportsPhysical != nil {
			out.SupportsPhysical = *info.SupportsPhysical
		}
		if v := PositiveCount(info.PhysicalMinPlayers); v != nil {
			out.PhysicalMinPlayers = v
		}
		if v := PositiveCount(info.PhysicalMaxPlayers); v != nil {
			out.PhysicalMaxPlayers = v
		}
	}

	return out
}

// PositiveCount returns a copy of the value when it is a usable player count
// and nil otherwise. Zero and negative values mean "unknown".
func PositiveCount(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	return intPtr(*v)
}

func intPtr(v int) *int {
	return &v
}
