package sim

import (
	"math/rand"
	"testing"
)

func testPath() *Path {
	return newPath([]vec2{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0}})
}

func TestNewEnemyStartsAtFirstWaypoint(t *testing.T) {
	p := testPath()
	e := NewEnemy("e1", EnemyScriptKiddie, 1, p)
	if e.Position != p.FirstWaypoint() {
		t.Fatalf("expected enemy to start at first waypoint, got %v", e.Position)
	}
	if e.Health != e.MaxHealth {
		t.Fatalf("expected fresh enemy at full health")
	}
}

func TestNewEnemyHealthMultiplierScales(t *testing.T) {
	p := testPath()
	base := NewEnemy("e1", EnemyScriptKiddie, 1, p)
	scaled := NewEnemy("e2", EnemyScriptKiddie, 2, p)
	if scaled.MaxHealth != base.MaxHealth*2 {
		t.Fatalf("expected doubled health, got %v vs %v", scaled.MaxHealth, base.MaxHealth)
	}
}

func TestApplyDamageKillsAtZero(t *testing.T) {
	p := testPath()
	e := NewEnemy("e1", EnemyScriptKiddie, 1, p)
	e.ApplyDamage(e.MaxHealth+100, DamagePhysical)
	if !e.Dead {
		t.Fatalf("expected enemy to be dead after lethal damage")
	}
	if e.Health != 0 {
		t.Fatalf("expected health clamped to 0, got %v", e.Health)
	}
}

func TestApplyDamageRespectsResistance(t *testing.T) {
	p := testPath()
	e := NewEnemy("e1", EnemyScriptKiddie, 1, p)
	e.Resistance[DamagePhysical] = 0.5
	dealt := e.ApplyDamage(10, DamagePhysical)
	if dealt != 5 {
		t.Fatalf("expected 50%% resistance to halve damage, got %v", dealt)
	}
}

func TestApplyDamageOnDeadEnemyIsNoop(t *testing.T) {
	p := testPath()
	e := NewEnemy("e1", EnemyScriptKiddie, 1, p)
	e.Dead = true
	e.Health = 0
	dealt := e.ApplyDamage(10, DamagePhysical)
	if dealt != 0 {
		t.Fatalf("expected no damage applied to an already-dead enemy, got %v", dealt)
	}
}

func TestAdvanceMovesTowardWaypointAndSetsReachedEnd(t *testing.T) {
	p := testPath()
	e := NewEnemy("e1", EnemyScriptKiddie, 1, p)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 10000 && !e.ReachedEnd; i++ {
		e.Advance(p, 100, rng, nil, nil)
	}
	if !e.ReachedEnd {
		t.Fatalf("expected enemy to reach the end of the path eventually")
	}
}

func TestAdvanceNoopsOnDeadOrReachedEnd(t *testing.T) {
	p := testPath()
	e := NewEnemy("e1", EnemyScriptKiddie, 1, p)
	rng := rand.New(rand.NewSource(1))
	e.Dead = true
	before := e.Position
	e.Advance(p, 100, rng, nil, nil)
	if e.Position != before {
		t.Fatalf("expected no movement once dead")
	}
}

func TestFederalAgentSpeedBoostNearDefense(t *testing.T) {
	p := testPath()
	e := NewEnemy("e1", EnemyFederalAgent, 1, p)
	d := NewDefense("d1", DefenseFirewall, 0, 0, GridSize)
	d.Center = e.Position // guaranteed within 200
	rng := rand.New(rand.NewSource(1))

	e.Advance(p, 100, rng, nil, []*Defense{d})
	if !e.federalBoosted {
		t.Fatalf("expected federalAgent to be boosted near a defense")
	}
}

func TestPathProgressInterpolatesBetweenWaypoints(t *testing.T) {
	p := testPath() // waypoints at x=0, 100, 200; length 200

	got := pathProgress(p, 1, vec2{X: 50, Y: 0})
	if want := 0.25; got != want {
		t.Fatalf("expected progress %v halfway into the first segment, got %v", want, got)
	}

	got = pathProgress(p, 2, vec2{X: 150, Y: 0})
	if want := 0.75; got != want {
		t.Fatalf("expected progress %v halfway into the second segment, got %v", want, got)
	}
}

func TestAISurveillancePassiveDoesNotRegressPastReachedWaypoint(t *testing.T) {
	p := testPath()
	e := NewEnemy("e1", EnemyAISurveillance, 1, p)
	e.WaypointIndex = 2 // already past waypoint 1 at x=100
	e.Position = vec2{X: 105, Y: 0}
	d := NewDefense("d1", DefenseFirewall, 0, 0, GridSize)
	d.Center = vec2{X: 106, Y: 0} // 1 unit away: strong repulsion, straight back down the path
	rng := rand.New(rand.NewSource(1))

	e.applyPassive(p, 1000, rng, nil, []*Defense{d})

	if e.Position.X < 100 {
		t.Fatalf("expected repulsion to be bounded at the last reached waypoint, got position %v", e.Position)
	}
}

func TestNewBossSeedsMegaCorpTitanShield(t *testing.T) {
	p := testPath()
	boss := NewBoss("boss1", BossMegaCorpTitan, 1, p)
	if boss.Boss == nil || !boss.Boss.ShieldActive {
		t.Fatalf("expected megaCorpTitan to spawn with an active shield")
	}
	if boss.Boss.ShieldHealth != 100 || boss.Boss.ShieldMax != 100 {
		t.Fatalf("expected shield seeded at 100/100, got %v/%v", boss.Boss.ShieldHealth, boss.Boss.ShieldMax)
	}
}

func TestNewBossRaidTeamHasNoShield(t *testing.T) {
	p := testPath()
	boss := NewBoss("boss1", BossRaidTeam, 1, p)
	if boss.Boss.ShieldActive {
		t.Fatalf("expected raidTeam to have no shield")
	}
}
