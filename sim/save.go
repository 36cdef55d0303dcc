package sim

import (
	"fmt"
	"strconv"
	"strings"

	"ctrlspike/towerdefense/logging"
)

// SaveMajorVersion and SaveMinorVersion compose the document's "1.0"-style
// version string (spec §6: major mismatch refuses load, minor mismatch is
// best-effort with a warning).
const (
	SaveMajorVersion = 1
	SaveMinorVersion = 0
)

// SaveDocument is the JSON-tagged root of the save format (spec §6).
type SaveDocument struct {
	Version   string   `json:"version"`
	Timestamp uint64   `json:"timestamp"`
	Game      SaveGame `json:"game"`
}

// SaveGame captures the entire simulation state.
type SaveGame struct {
	State     string        `json:"state"`
	Resources SaveResources `json:"resources"`
	Lives     int           `json:"lives"`
	Wave      int           `json:"wave"`
	Score     int           `json:"score"`
	Seed      string        `json:"seed"`
	PathShape string        `json:"path_shape"`
	Defenses  []SaveDefense `json:"defenses"`
	Enemies   []SaveEnemy   `json:"enemies"`
	Level     SaveLevel     `json:"level"`

	SelectedDefenseType string `json:"selected_defense_type"`

	AchievementCounters map[string]int  `json:"achievement_counters,omitempty"`
	AchievementUnlocked map[string]bool `json:"achievement_unlocked,omitempty"`
}

type SaveResources struct {
	Dharma    int `json:"dharma"`
	Bandwidth int `json:"bandwidth"`
	Anonymity int `json:"anonymity"`
}

type SaveNamedDuration struct {
	Kind        string  `json:"kind"`
	RemainingMs float64 `json:"remaining_ms"`
	Magnitude   float64 `json:"magnitude,omitempty"`
}

type SaveDefense struct {
	X          float64             `json:"x"`
	Y          float64             `json:"y"`
	Type       string              `json:"type"`
	Level      int                 `json:"level"`
	Experience int                 `json:"experience"`
	ExpToNext  int                 `json:"exp_to_next"`
	Buffs      []SaveNamedDuration `json:"buffs"`
	Debuffs    []SaveNamedDuration `json:"debuffs"`
}

type SaveEnemy struct {
	X         float64             `json:"x"`
	Y         float64             `json:"y"`
	Type      string              `json:"type"`
	Health    float64             `json:"health"`
	MaxHealth float64             `json:"max_health"`
	PathIndex int                 `json:"path_index"`
	Progress  float64             `json:"progress"`
	Status    []SaveNamedDuration `json:"status"`

	Phase    *int     `json:"phase,omitempty"`
	Shield   *bool    `json:"shield,omitempty"`
	ShieldHP *float64 `json:"shield_hp,omitempty"`
	BossKind string   `json:"boss_kind,omitempty"`
}

type SaveLevel struct {
	CurrentWave    int     `json:"current_wave"`
	WaveInProgress bool    `json:"wave_in_progress"`
	WaveTimerMs    float64 `json:"wave_timer_ms"`
}

// Save serializes the entire simulation state (spec §6, §4.8, round-trip
// property in §8).
func (e *Engine) Save(timestamp uint64) SaveDocument {
	doc := SaveDocument{
		Version:   fmt.Sprintf("%d.%d", SaveMajorVersion, SaveMinorVersion),
		Timestamp: timestamp,
		Game: SaveGame{
			State:     string(e.State),
			Resources: SaveResources(e.Ledger.Resources),
			Lives:     e.Ledger.Lives,
			Wave:      e.Waves.CurrentWave,
			Score:     e.Ledger.Score,
			Seed:      e.seed,
			PathShape: string(e.pathShape),
			Level: SaveLevel{
				CurrentWave:    e.Waves.CurrentWave,
				WaveInProgress: e.Waves.InProgress,
				WaveTimerMs:    e.Waves.InterWaveTimer,
			},
		},
	}

	counters, unlocked := e.Achievements.Snapshot()
	doc.Game.AchievementCounters = counters
	doc.Game.AchievementUnlocked = unlocked

	for _, d := range e.Store.DefenseList() {
		doc.Game.Defenses = append(doc.Game.Defenses, saveDefense(d))
	}
	for _, en := range e.Store.EnemyList() {
		doc.Game.Enemies = append(doc.Game.Enemies, saveEnemy(en))
	}

	return doc
}

func saveDefense(d *Defense) SaveDefense {
	sd := SaveDefense{
		X: d.Center.X, Y: d.Center.Y,
		Type:  string(d.Kind),
		Level: d.Level,
	}
	for kind, effect := range d.Buffs.All() {
		sd.Buffs = append(sd.Buffs, SaveNamedDuration{Kind: effectKindName(kind), RemainingMs: effect.RemainingMs, Magnitude: effect.Magnitude})
	}
	for kind, effect := range d.Debuffs.All() {
		sd.Debuffs = append(sd.Debuffs, SaveNamedDuration{Kind: effectKindName(kind), RemainingMs: effect.RemainingMs, Magnitude: effect.Magnitude})
	}
	return sd
}

func saveEnemy(e *Enemy) SaveEnemy {
	se := SaveEnemy{
		X: e.Position.X, Y: e.Position.Y,
		Type:      string(e.Kind),
		Health:    e.Health,
		MaxHealth: e.MaxHealth,
		PathIndex: e.WaypointIndex,
		Progress:  e.Progress,
	}
	for kind, effect := range e.Status.All() {
		se.Status = append(se.Status, SaveNamedDuration{Kind: effectKindName(kind), RemainingMs: effect.RemainingMs, Magnitude: effect.Magnitude})
	}
	if e.Boss != nil {
		phase := e.Boss.Phase
		shield := e.Boss.ShieldActive
		shieldHP := e.Boss.ShieldHealth
		se.Phase = &phase
		se.Shield = &shield
		se.ShieldHP = &shieldHP
		se.BossKind = string(e.Boss.Kind)
	}
	return se
}

var effectKindNames = map[EffectKind]string{
	EffectFrozen: "frozen", EffectBurning: "burning", EffectPoisoned: "poisoned",
	EffectSlowed: "slowed", EffectHasted: "hasted", EffectStealthed: "stealthed",
	EffectScrambled: "scrambled", EffectCloaked: "cloaked", EffectBoosted: "boosted",
	EffectCorrupted: "corrupted", EffectEMP: "emp", EffectReflection: "reflection",
	EffectEncrypted: "encrypted",
}

var effectKindByName = func() map[string]EffectKind {
	out := make(map[string]EffectKind, len(effectKindNames))
	for k, v := range effectKindNames {
		out[v] = k
	}
	return out
}()

func effectKindName(k EffectKind) string {
	return effectKindNames[k]
}

// parseSaveVersion splits a "major.minor" version string.
func parseSaveVersion(v string) (major, minor int, ok bool) {
	parts := strings.SplitN(v, ".", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	maj, err1 := strconv.Atoi(parts[0])
	min, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return maj, min, true
}

// LoadSaveDocument validates and restores a save document into a fresh
// engine (spec §6, §7: major-version mismatch refuses to load atomically;
// prior state is untouched since a fresh engine is only returned on
// success).
func LoadSaveDocument(pub logging.Publisher, doc SaveDocument) (*Engine, *CommandError) {
	major, _, ok := parseSaveVersion(doc.Version)
	if !ok {
		return nil, newCommandError("load", RejectInvalidSaveDocument, "unparseable version string")
	}
	if major != SaveMajorVersion {
		return nil, newCommandError("load", RejectVersionMismatch, "save document major version is incompatible")
	}
	if doc.Game.Seed == "" {
		return nil, newCommandError("load", RejectInvalidSaveDocument, "missing seed")
	}

	e := NewEngine(pub, doc.Game.Seed, PathShape(doc.Game.PathShape))
	e.State = GameStatus(doc.Game.State)
	e.Ledger.Resources = Resources(doc.Game.Resources)
	e.Ledger.Lives = doc.Game.Lives
	e.Ledger.Score = doc.Game.Score
	e.Waves.CurrentWave = doc.Game.Level.CurrentWave
	e.Waves.InProgress = doc.Game.Level.WaveInProgress
	e.Waves.InterWaveTimer = doc.Game.Level.WaveTimerMs
	e.Achievements.Restore(doc.Game.AchievementCounters, doc.Game.AchievementUnlocked)
	e.lastCompletedWave = doc.Game.Level.CurrentWave

	for _, sd := range doc.Game.Defenses {
		kind := DefenseKind(sd.Type)
		if _, known := defenseStatArchetype[kind]; !known {
			return nil, newCommandError("load", RejectInvalidSaveDocument, "unknown defense kind: "+sd.Type)
		}
		gx := int(sd.X / GridSize)
		gy := int(sd.Y / GridSize)
		d := NewDefense("", kind, gx, gy, GridSize)
		d.Level = sd.Level
		for _, b := range sd.Buffs {
			if kind, ok := effectKindByName[b.Kind]; ok {
				d.Buffs.Apply(kind, b.RemainingMs, b.Magnitude)
			}
		}
		for _, b := range sd.Debuffs {
			if kind, ok := effectKindByName[b.Kind]; ok {
				d.Debuffs.Apply(kind, b.RemainingMs, b.Magnitude)
			}
		}
		e.Store.AddDefense(d)
	}

	for _, se := range doc.Game.Enemies {
		var restored *Enemy
		if se.BossKind != "" {
			restored = NewBoss("", BossKind(se.BossKind), 1, e.Path)
			if se.Phase != nil {
				restored.Boss.Phase = *se.Phase
			}
			if se.Shield != nil {
				restored.Boss.ShieldActive = *se.Shield
			}
			if se.ShieldHP != nil {
				restored.Boss.ShieldHealth = *se.ShieldHP
			}
		} else {
			kind := EnemyKind(se.Type)
			if _, known := enemyBase[kind]; !known {
				return nil, newCommandError("load", RejectInvalidSaveDocument, "unknown enemy kind: "+se.Type)
			}
			restored = NewEnemy("", kind, 1, e.Path)
		}
		restored.Position = vec2{X: se.X, Y: se.Y}
		restored.Health = se.Health
		restored.MaxHealth = se.MaxHealth
		restored.WaypointIndex = se.PathIndex
		restored.Progress = se.Progress
		for _, s := range se.Status {
			if kind, ok := effectKindByName[s.Kind]; ok {
				restored.Status.Apply(kind, s.RemainingMs, s.Magnitude)
			}
		}
		e.Store.AddEnemy(restored)
	}

	return e, nil
}
