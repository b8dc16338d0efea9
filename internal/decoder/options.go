package decoder

// SpellMode controls whether pinyin is emitted with committed hanzi.
type SpellMode int

const (
	SpellNone      SpellMode = iota // hanzi only
	SpellReplacing                  // pinyin instead of hanzi
	SpellFollowing                  // hanzi followed by pinyin
)

func (m SpellMode) String() string {
	switch m {
	case SpellReplacing:
		return "replacing"
	case SpellFollowing:
		return "following"
	default:
		return "none"
	}
}

// Option is one commit option switch.
type Option int

const (
	// OptionSpell cycles the spell mode.
	OptionSpell Option = iota
	// OptionVariant toggles emitting the traditional/simplified variant.
	OptionVariant
)

// CommitOptions shape the text produced on commit.
type CommitOptions struct {
	Spell   SpellMode
	Variant bool
}

func (o CommitOptions) apply(opt Option) (CommitOptions, bool) {
	switch opt {
	case OptionSpell:
		o.Spell = (o.Spell + 1) % 3
	case OptionVariant:
		o.Variant = !o.Variant
	default:
		return o, false
	}
	return o, true
}
