package stats

// Archetype identifies a defense kind, used to seed a Component's base layer.
type Archetype uint8

const (
	ArchetypeFirewall Archetype = iota
	ArchetypeEncryption
	ArchetypeDecoy
	ArchetypeMirror
	ArchetypeAnonymity
	ArchetypeDistributor
)

// archetypeBase mirrors DEFENSE_BASE from the specification verbatim; these
// values MUST be preserved for parity (spec §6).
var archetypeBase = map[Archetype]ValueSet{
	ArchetypeFirewall: {
		StatDamage: 15, StatRange: 200, StatFireRateMs: 1000, StatProjectileSpeed: 5,
	},
	ArchetypeEncryption: {
		StatDamage: 25, StatRange: 180, StatFireRateMs: 1500, StatProjectileSpeed: 4,
	},
	ArchetypeDecoy: {
		StatDamage: 0, StatRange: 150, StatFireRateMs: 0, StatProjectileSpeed: 0,
	},
	ArchetypeMirror: {
		StatDamage: 40, StatRange: 250, StatFireRateMs: 2000, StatProjectileSpeed: 8,
	},
	ArchetypeAnonymity: {
		StatDamage: 20, StatRange: 300, StatFireRateMs: 1200, StatProjectileSpeed: 6,
	},
	ArchetypeDistributor: {
		StatDamage: 30, StatRange: 350, StatFireRateMs: 800, StatProjectileSpeed: 7,
	},
}

// DefaultBase returns a copy of the base values for the given archetype.
func DefaultBase(archetype Archetype) ValueSet {
	return archetypeBase[archetype]
}

// DefaultComponent constructs and resolves a component using the archetype defaults.
func DefaultComponent(archetype Archetype) Component {
	comp := NewComponent(DefaultBase(archetype))
	comp.Resolve(0)
	return comp
}
