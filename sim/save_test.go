package sim

import (
	"context"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	e := NewEngine(nil, "round-trip-seed", PathDefault)
	// Bottom-left corner: outside the default path generator's y-jitter
	// range regardless of seed, so placement never collides with the path.
	d, cmdErr := e.PlaceDefense(context.Background(), 0, 15, DefenseFirewall)
	if cmdErr != nil {
		t.Fatalf("unexpected reject placing defense: %v", cmdErr)
	}
	d.Level = 3
	d.Buffs.Apply(EffectBoosted, 2000, 0)

	enemy := NewEnemy("", EnemyFederalAgent, 1.5, e.Path)
	enemy.Health = 20
	enemy.Status.Apply(EffectSlowed, 500, 0)
	e.Store.AddEnemy(enemy)

	boss := NewBoss("", BossMegaCorpTitan, 1, e.Path)
	boss.Boss.Phase = 2
	boss.Boss.ShieldHealth = 40
	e.Store.AddEnemy(boss)

	e.Ledger.Resources = Resources{Dharma: 123, Bandwidth: 45, Anonymity: 6}
	e.Ledger.Lives = 17
	e.Waves.CurrentWave = 4

	doc := e.Save(1000)
	restored, cmdErr := LoadSaveDocument(nil, doc)
	if cmdErr != nil {
		t.Fatalf("unexpected reject loading save: %v", cmdErr)
	}

	if restored.Ledger.Resources != e.Ledger.Resources {
		t.Fatalf("resources diverged: got %v, want %v", restored.Ledger.Resources, e.Ledger.Resources)
	}
	if restored.Ledger.Lives != e.Ledger.Lives {
		t.Fatalf("lives diverged: got %d, want %d", restored.Ledger.Lives, e.Ledger.Lives)
	}
	if restored.Waves.CurrentWave != e.Waves.CurrentWave {
		t.Fatalf("wave diverged: got %d, want %d", restored.Waves.CurrentWave, e.Waves.CurrentWave)
	}
	if len(restored.Store.Defenses) != len(e.Store.Defenses) {
		t.Fatalf("defense count diverged: got %d, want %d", len(restored.Store.Defenses), len(e.Store.Defenses))
	}
	if len(restored.Store.Enemies) != len(e.Store.Enemies) {
		t.Fatalf("enemy count diverged: got %d, want %d", len(restored.Store.Enemies), len(e.Store.Enemies))
	}

	var restoredBoss *Enemy
	for _, en := range restored.Store.Enemies {
		if en.Boss != nil {
			restoredBoss = en
		}
	}
	if restoredBoss == nil {
		t.Fatalf("expected the boss to survive the round trip")
	}
	if restoredBoss.Boss.Phase != 2 || restoredBoss.Boss.ShieldHealth != 40 {
		t.Fatalf("boss state diverged: phase=%d shieldHealth=%v", restoredBoss.Boss.Phase, restoredBoss.Boss.ShieldHealth)
	}
}

func TestLoadSaveDocumentRejectsMajorVersionMismatch(t *testing.T) {
	e := NewEngine(nil, "seed", PathDefault)
	doc := e.Save(1000)
	doc.Version = "99.0"
	_, cmdErr := LoadSaveDocument(nil, doc)
	if cmdErr == nil || cmdErr.Code != RejectVersionMismatch {
		t.Fatalf("expected VERSION_MISMATCH, got %v", cmdErr)
	}
}

func TestLoadSaveDocumentRejectsUnknownDefenseKind(t *testing.T) {
	e := NewEngine(nil, "seed", PathDefault)
	doc := e.Save(1000)
	doc.Game.Defenses = append(doc.Game.Defenses, SaveDefense{Type: "not-a-real-kind", X: 100, Y: 100, Level: 1})
	_, cmdErr := LoadSaveDocument(nil, doc)
	if cmdErr == nil || cmdErr.Code != RejectInvalidSaveDocument {
		t.Fatalf("expected INVALID_SAVE_DOCUMENT, got %v", cmdErr)
	}
}

func TestLoadSaveDocumentRejectsMissingSeed(t *testing.T) {
	e := NewEngine(nil, "seed", PathDefault)
	doc := e.Save(1000)
	doc.Game.Seed = ""
	_, cmdErr := LoadSaveDocument(nil, doc)
	if cmdErr == nil || cmdErr.Code != RejectInvalidSaveDocument {
		t.Fatalf("expected INVALID_SAVE_DOCUMENT for missing seed, got %v", cmdErr)
	}
}
