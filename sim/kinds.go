package sim

import "ctrlspike/towerdefense/stats"

// DefenseKind is the canonical enumeration of defense archetypes (spec §6).
type DefenseKind string

const (
	DefenseFirewall    DefenseKind = "firewall"
	DefenseEncryption  DefenseKind = "encryption"
	DefenseDecoy       DefenseKind = "decoy"
	DefenseMirror      DefenseKind = "mirror"
	DefenseAnonymity   DefenseKind = "anonymity"
	DefenseDistributor DefenseKind = "distributor"
)

// AllDefenseKinds lists every defense kind in canonical order.
var AllDefenseKinds = []DefenseKind{
	DefenseFirewall, DefenseEncryption, DefenseDecoy, DefenseMirror, DefenseAnonymity, DefenseDistributor,
}

// EnemyKind is the canonical enumeration of enemy archetypes (spec §6).
type EnemyKind string

const (
	EnemyScriptKiddie      EnemyKind = "scriptKiddie"
	EnemyFederalAgent      EnemyKind = "federalAgent"
	EnemyCorporateSaboteur EnemyKind = "corporateSaboteur"
	EnemyAISurveillance    EnemyKind = "aiSurveillance"
	EnemyQuantumHacker     EnemyKind = "quantumHacker"
	EnemyCorruptedMonk     EnemyKind = "corruptedMonk"
)

// AllEnemyKinds lists every non-boss enemy kind in canonical order (used by
// the wave scheduler's progressive-difficulty gate, spec §4.2).
var AllEnemyKinds = []EnemyKind{
	EnemyScriptKiddie, EnemyFederalAgent, EnemyCorporateSaboteur, EnemyAISurveillance, EnemyQuantumHacker, EnemyCorruptedMonk,
}

// BossKind is the canonical enumeration of boss archetypes (spec §6).
type BossKind string

const (
	BossRaidTeam      BossKind = "raidTeam"
	BossMegaCorpTitan BossKind = "megaCorpTitan"
)

// DamageKind names the flavour of incoming damage a resistance table can key on.
type DamageKind string

const (
	DamagePhysical DamageKind = "physical"
	DamageSplash   DamageKind = "splash"
)

// defenseStatArchetype maps a defense kind to its stats.Archetype base row.
var defenseStatArchetype = map[DefenseKind]stats.Archetype{
	DefenseFirewall:    stats.ArchetypeFirewall,
	DefenseEncryption:  stats.ArchetypeEncryption,
	DefenseDecoy:       stats.ArchetypeDecoy,
	DefenseMirror:      stats.ArchetypeMirror,
	DefenseAnonymity:   stats.ArchetypeAnonymity,
	DefenseDistributor: stats.ArchetypeDistributor,
}

// DefenseCost describes the resource price of placing or upgrading a defense.
type DefenseCost struct {
	Dharma    int
	Bandwidth int
	Anonymity int
}

// defenseBaseCost mirrors DEFENSE_BASE's cost column (spec §6).
var defenseBaseCost = map[DefenseKind]DefenseCost{
	DefenseFirewall:    {Dharma: 25, Bandwidth: 0, Anonymity: 0},
	DefenseEncryption:  {Dharma: 50, Bandwidth: 20, Anonymity: 10},
	DefenseDecoy:       {Dharma: 30, Bandwidth: 15, Anonymity: 5},
	DefenseMirror:      {Dharma: 75, Bandwidth: 40, Anonymity: 20},
	DefenseAnonymity:   {Dharma: 60, Bandwidth: 30, Anonymity: 40},
	DefenseDistributor: {Dharma: 100, Bandwidth: 60, Anonymity: 30},
}

// EnemyBaseStats mirrors ENEMY_BASE (spec §6).
type EnemyBaseStats struct {
	Health float64
	Speed  float64
	Reward Resources
	Size   float64
}

var enemyBase = map[EnemyKind]EnemyBaseStats{
	EnemyScriptKiddie:      {Health: 20, Speed: 80, Reward: Resources{Dharma: 5, Bandwidth: 2, Anonymity: 1}, Size: 15},
	EnemyFederalAgent:      {Health: 40, Speed: 60, Reward: Resources{Dharma: 10, Bandwidth: 5, Anonymity: 3}, Size: 18},
	EnemyCorporateSaboteur: {Health: 35, Speed: 70, Reward: Resources{Dharma: 15, Bandwidth: 8, Anonymity: 5}, Size: 16},
	EnemyAISurveillance:    {Health: 60, Speed: 50, Reward: Resources{Dharma: 20, Bandwidth: 12, Anonymity: 8}, Size: 20},
	EnemyQuantumHacker:     {Health: 80, Speed: 90, Reward: Resources{Dharma: 30, Bandwidth: 20, Anonymity: 15}, Size: 22},
	EnemyCorruptedMonk:     {Health: 100, Speed: 40, Reward: Resources{Dharma: 50, Bandwidth: 30, Anonymity: 25}, Size: 25},
}

// BossBaseStats mirrors BOSS_BASE (spec §6).
type BossBaseStats struct {
	Health float64
	Speed  float64
	Reward Resources
	Size   float64
	Phases int
}

var bossBase = map[BossKind]BossBaseStats{
	BossRaidTeam:      {Health: 500, Speed: 30, Reward: Resources{Dharma: 100, Bandwidth: 60, Anonymity: 40}, Size: 40, Phases: 3},
	BossMegaCorpTitan: {Health: 800, Speed: 20, Reward: Resources{Dharma: 200, Bandwidth: 120, Anonymity: 80}, Size: 50, Phases: 4},
}
