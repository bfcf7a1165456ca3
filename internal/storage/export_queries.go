package storage

import (
	"fmt"
	"strings"
)

// TeamRecord is a team's win/loss record over the stored matches, computed
// in SQL for the export and list commands.
type TeamRecord struct {
	Code     string
	Name     string
	Matches  int
	Wins     int
	SetsWon  int
	SetsLost int
}

// TeamRecords returns one record per team code, most wins first. The name is
// the one recorded on the team's earliest stored match.
func (db *DB) TeamRecords() ([]TeamRecord, error) {
	rows, err := db.conn.Query(`
		WITH appearances AS (
			SELECT m.hash, m.imported_at, m.home_code AS code, m.home_name AS name,
			       m.is_win AS won,
			       (SELECT COUNT(1) FROM match_sets s WHERE s.match_hash = m.hash AND s.is_win = 1) AS sets_won,
			       (SELECT COUNT(1) FROM match_sets s WHERE s.match_hash = m.hash AND s.is_win = 0) AS sets_lost
			FROM matches m
			UNION ALL
			SELECT m.hash, m.imported_at, m.away_code, m.away_name,
			       1 - m.is_win,
			       (SELECT COUNT(1) FROM match_sets s WHERE s.match_hash = m.hash AND s.is_win = 0),
			       (SELECT COUNT(1) FROM match_sets s WHERE s.match_hash = m.hash AND s.is_win = 1)
			FROM matches m
		)
		SELECT code,
		       (SELECT a2.name FROM appearances a2 WHERE a2.code = a.code
		        ORDER BY a2.imported_at, a2.hash LIMIT 1),
		       COUNT(1), SUM(won), SUM(sets_won), SUM(sets_lost)
		FROM appearances a
		GROUP BY code
		ORDER BY SUM(won) DESC, code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamRecord
	for rows.Next() {
		var r TeamRecord
		if err := rows.Scan(&r.Code, &r.Name, &r.Matches, &r.Wins, &r.SetsWon, &r.SetsLost); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DiagnosticCount is how many lines of one kind were skipped in a match.
type DiagnosticCount struct {
	Kind  string
	Count int
}

// DiagnosticCounts groups the stored diagnostics of the given matches by
// kind.
func (db *DB) DiagnosticCounts(hashes []string) ([]DiagnosticCount, error) {
	if len(hashes) == 0 {
		return nil, nil
	}
	args := make([]interface{}, len(hashes))
	for i, h := range hashes {
		args[i] = h
	}

	query := fmt.Sprintf(`
		SELECT kind, COUNT(1) FROM match_diagnostics
		WHERE match_hash IN (%s)
		GROUP BY kind
		ORDER BY kind`, placeholders(len(hashes)))

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DiagnosticCount
	for rows.Next() {
		var d DiagnosticCount
		if err := rows.Scan(&d.Kind, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
