package catalog

// Effect tags the small set of commands whose success changes local entity
// attributes. Dispatch consults this table instead of re-parsing names.
type Effect int

const (
	EffectNone Effect = iota
	EffectPowerOn
	EffectPowerOff
	EffectPowerToggle
	EffectPlayPause
	EffectStop
	EffectMuteToggle
)

var effects = map[string]Effect{
	"Power On":     EffectPowerOn,
	"Power Off":    EffectPowerOff,
	"Power Toggle": EffectPowerToggle,
	"Play/Pause":   EffectPlayPause,
	"Stop":         EffectStop,
	"Mute":         EffectMuteToggle,
}

func EffectOf(name string) Effect {
	return effects[name]
}
