package sim

import (
	"context"
	"math/rand"
	"testing"
)

func TestUpdateBossPhaseIncreasesMonotonically(t *testing.T) {
	p := testPath()
	boss := NewBoss("b1", BossRaidTeam, 1, p)
	ctx := context.Background()

	lastPhase := boss.Boss.Phase
	boss.Health = boss.MaxHealth * 0.5
	UpdateBossPhase(ctx, nil, 1, boss)
	if boss.Boss.Phase < lastPhase {
		t.Fatalf("phase must never decrease: was %d, now %d", lastPhase, boss.Boss.Phase)
	}
	lastPhase = boss.Boss.Phase

	boss.Health = boss.MaxHealth * 0.1
	UpdateBossPhase(ctx, nil, 2, boss)
	if boss.Boss.Phase < lastPhase {
		t.Fatalf("phase must never decrease: was %d, now %d", lastPhase, boss.Boss.Phase)
	}
	if boss.Boss.Phase > boss.Boss.Phases {
		t.Fatalf("phase must never exceed the boss's total phases (%d), got %d", boss.Boss.Phases, boss.Boss.Phase)
	}
}

func TestUpdateBossPhaseHealthIncreaseDoesNotRegress(t *testing.T) {
	p := testPath()
	boss := NewBoss("b1", BossRaidTeam, 1, p)
	ctx := context.Background()

	boss.Health = boss.MaxHealth * 0.1
	UpdateBossPhase(ctx, nil, 1, boss)
	reachedPhase := boss.Boss.Phase

	boss.Health = boss.MaxHealth // healed back up
	UpdateBossPhase(ctx, nil, 2, boss)
	if boss.Boss.Phase != reachedPhase {
		t.Fatalf("expected phase to stay latched at %d even after healing, got %d", reachedPhase, boss.Boss.Phase)
	}
}

// TestUpdateBossPhaseMatchesLiteralDamageScenario locks in the exact
// numbers a raidTeam boss (hp=500, phases=3) must hit: 125 damage (25%)
// crosses into phase 2, and a further 125 damage (50% total) crosses into
// phase 3.
func TestUpdateBossPhaseMatchesLiteralDamageScenario(t *testing.T) {
	p := testPath()
	boss := NewBoss("b1", BossRaidTeam, 1, p)
	ctx := context.Background()

	boss.Health -= 125
	UpdateBossPhase(ctx, nil, 1, boss)
	if boss.Boss.Phase != 2 {
		t.Fatalf("expected phase 2 after 125 damage (25%%), got %d", boss.Boss.Phase)
	}

	boss.Health -= 125
	UpdateBossPhase(ctx, nil, 2, boss)
	if boss.Boss.Phase != 3 {
		t.Fatalf("expected phase 3 after 250 total damage (50%%), got %d", boss.Boss.Phase)
	}
}

// TestUpdateBossPhaseResetsRaidTeamAbilityTimersButNotShield asserts the
// phase-transition side effect resets the ability cadence a phase change is
// actually meant to restart (raidTeam's minion/EMP timers) while leaving the
// megaCorpTitan shield-regen timer alone, since that one only ever resets on
// its own schedule.
func TestUpdateBossPhaseResetsRaidTeamAbilityTimersButNotShield(t *testing.T) {
	p := testPath()
	ctx := context.Background()

	raid := NewBoss("b1", BossRaidTeam, 1, p)
	raid.Boss.MinionTimerMs = 3000
	raid.Boss.EMPTimerMs = 7000
	raid.Health = raid.MaxHealth * 0.5
	UpdateBossPhase(ctx, nil, 1, raid)
	if raid.Boss.MinionTimerMs != 0 || raid.Boss.EMPTimerMs != 0 {
		t.Fatalf("expected raidTeam ability timers to reset on phase change, got minion=%v emp=%v",
			raid.Boss.MinionTimerMs, raid.Boss.EMPTimerMs)
	}

	titan := NewBoss("b2", BossMegaCorpTitan, 1, p)
	titan.Boss.ShieldTimerMs = 6000
	titan.Health = titan.MaxHealth * 0.5
	UpdateBossPhase(ctx, nil, 1, titan)
	if titan.Boss.ShieldTimerMs != 6000 {
		t.Fatalf("expected megaCorpTitan shield timer untouched by a phase change, got %v", titan.Boss.ShieldTimerMs)
	}
}

func TestApplyBossDamageShieldAbsorbsFirst(t *testing.T) {
	p := testPath()
	boss := NewBoss("b1", BossMegaCorpTitan, 1, p)
	ctx := context.Background()
	healthBefore := boss.Health

	dealt := ApplyBossDamage(ctx, nil, 1, boss, 50, DamagePhysical)
	if dealt != 0 {
		t.Fatalf("expected shield to fully absorb a hit smaller than its remaining health, got dealt=%v", dealt)
	}
	if boss.Health != healthBefore {
		t.Fatalf("expected health untouched while shield absorbs")
	}
	if boss.Boss.ShieldHealth != 50 {
		t.Fatalf("expected shield health to drop by the absorbed amount, got %v", boss.Boss.ShieldHealth)
	}
}

func TestApplyBossDamageOverflowsIntoHealthOnShieldBreak(t *testing.T) {
	p := testPath()
	boss := NewBoss("b1", BossMegaCorpTitan, 1, p)
	ctx := context.Background()
	healthBefore := boss.Health

	dealt := ApplyBossDamage(ctx, nil, 1, boss, 150, DamagePhysical) // shield only holds 100
	if dealt != 150 {
		t.Fatalf("expected full damage amount reported once shield fully absorbed+overflowed, got %v", dealt)
	}
	if boss.Boss.ShieldHealth != 0 {
		t.Fatalf("expected shield fully depleted, got %v", boss.Boss.ShieldHealth)
	}
	if boss.Health != healthBefore-50 {
		t.Fatalf("expected 50 overflow damage applied to health, got health=%v (was %v)", boss.Health, healthBefore)
	}
}

func TestUpdateBossAbilitiesRaidTeamSpawnsMinionsOnSchedule(t *testing.T) {
	p := testPath()
	boss := NewBoss("b1", BossRaidTeam, 1, p)
	rng := rand.New(rand.NewSource(1))

	spawnCount := 0
	UpdateBossAbilities(boss, 5000, rng,
		func(count int, health, speed float64, near vec2) { spawnCount += count },
		func(radius, durationMs float64, center vec2) {},
		func(fraction float64) {},
	)
	if spawnCount == 0 {
		t.Fatalf("expected raidTeam to spawn minions once its timer crosses 5000ms")
	}
}

func TestUpdateBossAbilitiesMegaCorpTitanRegeneratesShield(t *testing.T) {
	p := testPath()
	boss := NewBoss("b1", BossMegaCorpTitan, 1, p)
	boss.Boss.ShieldHealth = 10
	rng := rand.New(rand.NewSource(1))

	UpdateBossAbilities(boss, 8000, rng,
		func(int, float64, float64, vec2) {},
		func(float64, float64, vec2) {},
		func(float64) {},
	)
	if boss.Boss.ShieldHealth <= 10 {
		t.Fatalf("expected shield to regenerate after crossing the 8000ms timer, got %v", boss.Boss.ShieldHealth)
	}
}
