package sim

// Store is the exclusive owner of every live actor collection: enemies,
// defenses, and projectiles (spec §3 Ownership). Only the tick's designated
// update phase may mutate a given collection.
type Store struct {
	Enemies     map[string]*Enemy
	Defenses    map[string]*Defense
	Projectiles map[string]*Projectile

	enemyArena      *arena
	defenseArena    *arena
	projectileArena *arena

	nextEnemyID      uint64
	nextDefenseID    uint64
	nextProjectileID uint64
}

// NewStore constructs an empty entity store.
func NewStore() *Store {
	return &Store{
		Enemies:         make(map[string]*Enemy),
		Defenses:        make(map[string]*Defense),
		Projectiles:     make(map[string]*Projectile),
		enemyArena:      newArena(),
		defenseArena:    newArena(),
		projectileArena: newArena(),
	}
}

func (s *Store) nextID(counter *uint64, prefix string) string {
	*counter++
	return idFromCounter(prefix, *counter)
}

func idFromCounter(prefix string, n uint64) string {
	digits := [20]byte{}
	i := len(digits)
	if n == 0 {
		i--
		digits[i] = '0'
	}
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return prefix + "-" + string(digits[i:])
}

// AddEnemy registers e in the store and its arena, returning its handle.
func (s *Store) AddEnemy(e *Enemy) Handle {
	if e.ID == "" {
		e.ID = s.nextID(&s.nextEnemyID, "enemy")
	}
	s.Enemies[e.ID] = e
	return s.enemyArena.register(e.ID)
}

// AddDefense registers d in the store and its arena, returning its handle.
func (s *Store) AddDefense(d *Defense) Handle {
	if d.ID == "" {
		d.ID = s.nextID(&s.nextDefenseID, "defense")
	}
	s.Defenses[d.ID] = d
	return s.defenseArena.register(d.ID)
}

// AddProjectile registers p in the store and its arena, returning its handle.
func (s *Store) AddProjectile(p *Projectile) Handle {
	if p.ID == "" {
		p.ID = s.nextID(&s.nextProjectileID, "projectile")
	}
	s.Projectiles[p.ID] = p
	return s.projectileArena.register(p.ID)
}

// EnemyList returns a snapshot slice of live enemies, stable order by ID for
// determinism when a caller needs to iterate rather than random-access.
func (s *Store) EnemyList() []*Enemy {
	out := make([]*Enemy, 0, len(s.Enemies))
	for _, id := range s.sortedEnemyIDs() {
		out = append(out, s.Enemies[id])
	}
	return out
}

func (s *Store) sortedEnemyIDs() []string {
	ids := make([]string, 0, len(s.Enemies))
	for id := range s.Enemies {
		ids = append(ids, id)
	}
	insertionSortStrings(ids)
	return ids
}

// DefenseList returns a snapshot slice of live defenses in deterministic order.
func (s *Store) DefenseList() []*Defense {
	ids := make([]string, 0, len(s.Defenses))
	for id := range s.Defenses {
		ids = append(ids, id)
	}
	insertionSortStrings(ids)
	out := make([]*Defense, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.Defenses[id])
	}
	return out
}

// ProjectileList returns a snapshot slice of live projectiles in
// deterministic order.
func (s *Store) ProjectileList() []*Projectile {
	ids := make([]string, 0, len(s.Projectiles))
	for id := range s.Projectiles {
		ids = append(ids, id)
	}
	insertionSortStrings(ids)
	out := make([]*Projectile, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.Projectiles[id])
	}
	return out
}

// insertionSortStrings sorts small slices without pulling in sort's
// reflection-based Slice; store collections are small enough per tick that
// this stays cheap and avoids an extra import for the hot path.
func insertionSortStrings(ids []string) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

// DefenseAt returns the defense occupying grid cell (gx, gy), if any (spec
// §8 invariant 7: no two defenses share a cell).
func (s *Store) DefenseAt(gx, gy int) *Defense {
	for _, d := range s.Defenses {
		if d.Sold {
			continue
		}
		if d.Cell[0] == gx && d.Cell[1] == gy {
			return d
		}
	}
	return nil
}

// PruneDead removes dead or reached-end enemies, sold defenses, and
// inactive projectiles, retiring their handles (spec §2's final tick phase).
func (s *Store) PruneDead() {
	for id, e := range s.Enemies {
		if e.Dead || e.ReachedEnd {
			delete(s.Enemies, id)
			s.enemyArena.retire(id)
		}
	}
	for id, d := range s.Defenses {
		if d.Sold {
			delete(s.Defenses, id)
			s.defenseArena.retire(id)
		}
	}
	for id, p := range s.Projectiles {
		if !p.Active {
			delete(s.Projectiles, id)
			s.projectileArena.retire(id)
		}
	}
}
