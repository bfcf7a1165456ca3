package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-volley-metrics/internal/model"
)

// MatchExists returns true if a match with the given hash is already stored.
func (db *DB) MatchExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch stores a decoded match with its sets, rosters, stats, rally
// log and diagnostics in one transaction. A match already stored under the
// same hash is replaced.
func (db *DB) InsertMatch(m *model.MatchResult) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteMatch(tx, m.Hash); err != nil {
		return fmt.Errorf("replace match %s: %w", m.Hash, err)
	}

	so := m.Sideouts
	_, err = tx.Exec(`
		INSERT INTO matches(hash, source, home_code, home_name, away_code, away_name,
			is_win, home_points, away_points,
			so_home_points, so_home_attempts, so_away_points, so_away_attempts, last_server)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		m.Hash, m.Source, m.HomeTeam.Code, m.HomeTeam.Name, m.AwayTeam.Code, m.AwayTeam.Name,
		boolInt(m.IsWin), m.TotalHomePoints, m.TotalAwayPoints,
		so.Home.Points, so.Home.Attempts, so.Away.Points, so.Away.Attempts, int(so.LastServer),
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.Hash, err)
	}

	if err := insertSets(tx, m); err != nil {
		return err
	}
	if err := insertPlayers(tx, m.Hash, model.SideHome, m.HomePlayers); err != nil {
		return err
	}
	if err := insertPlayers(tx, m.Hash, model.SideAway, m.AwayPlayers); err != nil {
		return err
	}
	if err := insertTeamStats(tx, m.Hash, m.Stats); err != nil {
		return err
	}
	if err := insertRawLines(tx, m.Hash, m.RawLines); err != nil {
		return err
	}
	if err := insertDiagnostics(tx, m.Hash, m.Diagnostics); err != nil {
		return err
	}
	return tx.Commit()
}

func insertSets(tx *sql.Tx, m *model.MatchResult) error {
	stmt, err := tx.Prepare(`
		INSERT INTO match_sets(match_hash, set_number, score, is_win, home_points, away_points)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, s := range m.Sets {
		if _, err := stmt.Exec(m.Hash, i+1, s.Score, boolInt(s.IsWin), s.HomePoints, s.AwayPoints); err != nil {
			return fmt.Errorf("insert set %d: %w", i+1, err)
		}
	}
	return nil
}

func insertPlayers(tx *sql.Tx, hash string, side model.Side, players []model.Player) error {
	stmt, err := tx.Prepare(`
		INSERT INTO match_players(
			match_hash, side, position, team_code, number, first_name, last_name,
			role, played_sets, serve_points, attack_points, block_points
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range players {
		_, err := stmt.Exec(
			hash, int(side), i, p.Team.Code, p.Number, p.FirstName, p.LastName,
			int(p.Role), p.PlayedSets, p.ServePoints, p.AttackPoints, p.BlockPoints,
		)
		if err != nil {
			return fmt.Errorf("insert player %s %s: %w", p.Team.Code, p.Number, err)
		}
	}
	return nil
}

func insertTeamStats(tx *sql.Tx, hash string, s model.TeamStats) error {
	_, err := tx.Exec(`
		INSERT INTO team_stats(
			match_hash, points, total_points, breaks, break_attempts, aces, serves,
			sideouts, sideout_attempts, receptions, reception_attempts,
			kills, attack_attempts, blocks, block_attempts, cars, car_attempts
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		hash, s.Points, s.TotalPoints, s.Breaks, s.BreakAttempts, s.Aces, s.Serves,
		s.Sideouts, s.SideoutAttempts, s.Receptions, s.ReceptionAttempts,
		s.Kills, s.AttackAttempts, s.Blocks, s.BlockAttempts, s.CARs, s.CARAttempts,
	)
	if err != nil {
		return fmt.Errorf("insert team_stats: %w", err)
	}
	return nil
}

func insertRawLines(tx *sql.Tx, hash string, lines []string) error {
	stmt, err := tx.Prepare("INSERT INTO raw_lines(match_hash, line_no, text) VALUES (?,?,?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, l := range lines {
		if _, err := stmt.Exec(hash, i+1, l); err != nil {
			return fmt.Errorf("insert raw line %d: %w", i+1, err)
		}
	}
	return nil
}

func insertDiagnostics(tx *sql.Tx, hash string, diags []model.Diagnostic) error {
	stmt, err := tx.Prepare(`
		INSERT INTO match_diagnostics(match_hash, seq, section, line, kind, detail)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, d := range diags {
		if _, err := stmt.Exec(hash, i, d.Section, d.Line, string(d.Kind), d.Detail); err != nil {
			return fmt.Errorf("insert diagnostic: %w", err)
		}
	}
	return nil
}

var childTables = []string{"match_sets", "match_players", "team_stats", "raw_lines", "match_diagnostics"}

func deleteMatch(tx *sql.Tx, hash string) error {
	for _, t := range childTables {
		if _, err := tx.Exec("DELETE FROM "+t+" WHERE match_hash = ?", hash); err != nil {
			return fmt.Errorf("delete %s: %w", t, err)
		}
	}
	_, err := tx.Exec("DELETE FROM matches WHERE hash = ?", hash)
	return err
}

// DeleteMatch removes a match and everything stored with it.
func (db *DB) DeleteMatch(hash string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteMatch(tx, hash); err != nil {
		return fmt.Errorf("delete match %s: %w", hash, err)
	}
	return tx.Commit()
}

const summaryColumns = `
	m.hash, m.source, m.home_code, m.home_name, m.away_code, m.away_name,
	(SELECT COUNT(1) FROM match_sets s WHERE s.match_hash = m.hash AND s.is_win = 1),
	(SELECT COUNT(1) FROM match_sets s WHERE s.match_hash = m.hash AND s.is_win = 0),
	m.home_points, m.away_points, m.imported_at`

func scanSummary(row interface{ Scan(...any) error }) (model.MatchSummary, error) {
	var s model.MatchSummary
	err := row.Scan(&s.Hash, &s.Source, &s.HomeCode, &s.HomeName, &s.AwayCode, &s.AwayName,
		&s.HomeSets, &s.AwaySets, &s.HomePoints, &s.AwayPoints, &s.ImportedAt)
	return s, err
}

// ListMatches returns all stored match summaries, newest import first.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + summaryColumns + `
		FROM matches m ORDER BY m.imported_at DESC, m.hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix returns the first match whose hash starts with prefix, or
// nil when none does.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	row := db.conn.QueryRow(`SELECT `+summaryColumns+`
		FROM matches m WHERE m.hash LIKE ? ORDER BY m.hash LIMIT 1`, prefix+"%")
	s, err := scanSummary(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadMatches rebuilds every stored match in import order.
func (db *DB) LoadMatches() ([]*model.MatchResult, error) {
	hashes, err := db.matchHashes("SELECT hash FROM matches ORDER BY imported_at, hash")
	if err != nil {
		return nil, err
	}
	return db.LoadMatchesByHash(hashes)
}

// LoadMatchesForTeam rebuilds the stored matches the team played in.
func (db *DB) LoadMatchesForTeam(code string) ([]*model.MatchResult, error) {
	hashes, err := db.matchHashes(`
		SELECT hash FROM matches WHERE home_code = ? OR away_code = ?
		ORDER BY imported_at, hash`, code, code)
	if err != nil {
		return nil, err
	}
	return db.LoadMatchesByHash(hashes)
}

func (db *DB) matchHashes(query string, args ...any) ([]string, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// LoadMatchesByHash rebuilds the given matches in the given order. Unknown
// hashes are an error.
func (db *DB) LoadMatchesByHash(hashes []string) ([]*model.MatchResult, error) {
	if len(hashes) == 0 {
		return nil, nil
	}
	args := make([]any, len(hashes))
	for i, h := range hashes {
		args[i] = h
	}

	byHash := make(map[string]*model.MatchResult, len(hashes))
	rows, err := db.conn.Query(`
		SELECT m.hash, m.source, m.home_code, m.home_name, m.away_code, m.away_name,
			m.is_win, m.home_points, m.away_points,
			m.so_home_points, m.so_home_attempts, m.so_away_points, m.so_away_attempts, m.last_server,
			t.points, t.total_points, t.breaks, t.break_attempts, t.aces, t.serves,
			t.sideouts, t.sideout_attempts, t.receptions, t.reception_attempts,
			t.kills, t.attack_attempts, t.blocks, t.block_attempts, t.cars, t.car_attempts
		FROM matches m JOIN team_stats t ON t.match_hash = m.hash
		WHERE m.hash IN (`+placeholders(len(hashes))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	for rows.Next() {
		var (
			m          model.MatchResult
			isWin      int
			lastServer int
			so         = &m.Sideouts
			s          = &m.Stats
		)
		if err := rows.Scan(&m.Hash, &m.Source, &m.HomeTeam.Code, &m.HomeTeam.Name, &m.AwayTeam.Code, &m.AwayTeam.Name,
			&isWin, &m.TotalHomePoints, &m.TotalAwayPoints,
			&so.Home.Points, &so.Home.Attempts, &so.Away.Points, &so.Away.Attempts, &lastServer,
			&s.Points, &s.TotalPoints, &s.Breaks, &s.BreakAttempts, &s.Aces, &s.Serves,
			&s.Sideouts, &s.SideoutAttempts, &s.Receptions, &s.ReceptionAttempts,
			&s.Kills, &s.AttackAttempts, &s.Blocks, &s.BlockAttempts, &s.CARs, &s.CARAttempts,
		); err != nil {
			rows.Close()
			return nil, err
		}
		m.IsWin = isWin != 0
		so.LastServer = model.Side(lastServer)
		byHash[m.Hash] = &m
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Child rows are read after the match rows are closed: the store holds a
	// single connection.
	if err := db.loadSets(byHash, args); err != nil {
		return nil, err
	}
	if err := db.loadPlayers(byHash, args); err != nil {
		return nil, err
	}
	if err := db.loadRawLines(byHash, args); err != nil {
		return nil, err
	}
	if err := db.loadDiagnostics(byHash, args); err != nil {
		return nil, err
	}

	out := make([]*model.MatchResult, 0, len(hashes))
	for _, h := range hashes {
		m, ok := byHash[h]
		if !ok {
			return nil, fmt.Errorf("match %s not found", h)
		}
		out = append(out, m)
	}
	return out, nil
}

// LoadMatch rebuilds one stored match, or returns nil when it is unknown.
func (db *DB) LoadMatch(hash string) (*model.MatchResult, error) {
	ok, err := db.MatchExists(hash)
	if err != nil || !ok {
		return nil, err
	}
	ms, err := db.LoadMatchesByHash([]string{hash})
	if err != nil {
		return nil, err
	}
	return ms[0], nil
}

func (db *DB) loadSets(byHash map[string]*model.MatchResult, args []any) error {
	rows, err := db.conn.Query(`
		SELECT match_hash, score, is_win, home_points, away_points
		FROM match_sets WHERE match_hash IN (`+placeholders(len(args))+`)
		ORDER BY match_hash, set_number`, args...)
	if err != nil {
		return fmt.Errorf("load sets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			hash  string
			s     model.SetResult
			isWin int
		)
		if err := rows.Scan(&hash, &s.Score, &isWin, &s.HomePoints, &s.AwayPoints); err != nil {
			return err
		}
		s.IsWin = isWin != 0
		if m := byHash[hash]; m != nil {
			m.Sets = append(m.Sets, s)
		}
	}
	return rows.Err()
}

func (db *DB) loadPlayers(byHash map[string]*model.MatchResult, args []any) error {
	rows, err := db.conn.Query(`
		SELECT match_hash, side, number, first_name, last_name,
			role, played_sets, serve_points, attack_points, block_points
		FROM match_players WHERE match_hash IN (`+placeholders(len(args))+`)
		ORDER BY match_hash, side, position`, args...)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			hash       string
			side, role int
			p          model.Player
		)
		if err := rows.Scan(&hash, &side, &p.Number, &p.FirstName, &p.LastName,
			&role, &p.PlayedSets, &p.ServePoints, &p.AttackPoints, &p.BlockPoints); err != nil {
			return err
		}
		p.Role = model.Role(role)
		m := byHash[hash]
		if m == nil {
			continue
		}
		if model.Side(side) == model.SideAway {
			p.Team = m.AwayTeam
			m.AwayPlayers = append(m.AwayPlayers, p)
		} else {
			p.Team = m.HomeTeam
			m.HomePlayers = append(m.HomePlayers, p)
		}
	}
	return rows.Err()
}

func (db *DB) loadRawLines(byHash map[string]*model.MatchResult, args []any) error {
	rows, err := db.conn.Query(`
		SELECT match_hash, text FROM raw_lines
		WHERE match_hash IN (`+placeholders(len(args))+`)
		ORDER BY match_hash, line_no`, args...)
	if err != nil {
		return fmt.Errorf("load raw lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hash, text string
		if err := rows.Scan(&hash, &text); err != nil {
			return err
		}
		if m := byHash[hash]; m != nil {
			m.RawLines = append(m.RawLines, text)
		}
	}
	return rows.Err()
}

func (db *DB) loadDiagnostics(byHash map[string]*model.MatchResult, args []any) error {
	rows, err := db.conn.Query(`
		SELECT match_hash, section, line, kind, detail FROM match_diagnostics
		WHERE match_hash IN (`+placeholders(len(args))+`)
		ORDER BY match_hash, seq`, args...)
	if err != nil {
		return fmt.Errorf("load diagnostics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			hash, kind string
			d          model.Diagnostic
		)
		if err := rows.Scan(&hash, &d.Section, &d.Line, &kind, &d.Detail); err != nil {
			return err
		}
		d.Kind = model.DiagnosticKind(kind)
		if m := byHash[hash]; m != nil {
			m.Diagnostics = append(m.Diagnostics, d)
		}
	}
	return rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and every row
// rendered as text.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
