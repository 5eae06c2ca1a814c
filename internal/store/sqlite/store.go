package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/graph"
	"github.com/fulsomenko/kanban-sub000/internal/store"
)

// Store persists the workspace in SQLite. Saves run in one transaction:
// rows absent from the incoming snapshot are deleted, present rows are
// upserted in foreign-key-safe order, and the metadata row is replaced.
type Store struct {
	db     *DB
	path   string
	logger *slog.Logger

	mu        sync.Mutex
	lastKnown store.Metadata
}

// NewStore creates a store over an open database.
func NewStore(db *DB, path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, path: path, logger: logger}
}

// Path names the database location.
func (s *Store) Path() string { return s.path }

// Exists reports whether a snapshot has ever been saved.
func (s *Store) Exists() bool {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM metadata WHERE id = 1`).Scan(&count); err != nil {
		return false
	}
	return count > 0
}

// ClearLastKnownMetadata forgets the cached fingerprint so the next save
// overwrites unconditionally.
func (s *Store) ClearLastKnownMetadata() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastKnown = store.Metadata{}
}

// Save persists the snapshot, detecting foreign modification through the
// metadata row.
func (s *Store) Save(ctx context.Context, snap store.Snapshot) (store.Metadata, error) {
	var state domain.State
	if err := json.Unmarshal(snap.Data, &state); err != nil {
		return store.Metadata{}, domain.Serializationf(err, "decoding snapshot")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Metadata{}, domain.Databasef(err, "beginning transaction")
	}
	defer tx.Rollback()

	onDisk, hasRow, err := readMetadata(tx)
	if err != nil {
		return store.Metadata{}, err
	}
	if !s.lastKnown.IsZero() && hasRow && !onDisk.Equal(s.lastKnown) {
		return store.Metadata{}, domain.Conflict(s.path, nil)
	}

	if err := s.writeState(tx, &state); err != nil {
		return store.Metadata{}, err
	}

	_, err = tx.Exec(`
		INSERT INTO metadata (id, instance_id, saved_at, schema_version) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET instance_id = excluded.instance_id,
			saved_at = excluded.saved_at, schema_version = excluded.schema_version`,
		snap.Metadata.InstanceID, fmtTime(snap.Metadata.SavedAt), schemaVersion)
	if err != nil {
		return store.Metadata{}, domain.Databasef(err, "upserting metadata")
	}

	if err := tx.Commit(); err != nil {
		return store.Metadata{}, domain.Databasef(err, "committing save")
	}
	s.lastKnown = snap.Metadata
	s.logger.Debug("state saved", "path", s.path, "instance", snap.Metadata.InstanceID)
	return snap.Metadata, nil
}

// Load reads every row, rebuilds the snapshot, and caches the metadata
// row for subsequent conflict checks. A never-saved database loads as an
// empty workspace.
func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return store.Snapshot{}, domain.Databasef(err, "beginning transaction")
	}
	defer tx.Rollback()

	meta, hasRow, err := readMetadata(tx)
	if err != nil {
		return store.Snapshot{}, err
	}

	state, err := readState(tx)
	if err != nil {
		return store.Snapshot{}, err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return store.Snapshot{}, domain.Serializationf(err, "encoding snapshot")
	}
	if hasRow {
		s.lastKnown = meta
	}
	return store.Snapshot{Data: data, Metadata: meta}, nil
}

func readMetadata(tx *sql.Tx) (store.Metadata, bool, error) {
	var instanceID, savedAt string
	err := tx.QueryRow(`SELECT instance_id, saved_at FROM metadata WHERE id = 1`).Scan(&instanceID, &savedAt)
	if err == sql.ErrNoRows {
		return store.Metadata{}, false, nil
	}
	if err != nil {
		return store.Metadata{}, false, domain.Databasef(err, "reading metadata")
	}
	at, err := parseTime(savedAt)
	if err != nil {
		return store.Metadata{}, false, domain.Serializationf(err, "parsing saved_at")
	}
	return store.Metadata{InstanceID: instanceID, SavedAt: at}, true, nil
}

// writeState diffs each table against the incoming collections: upserts
// parent-to-child first so surviving rows drop stale references, then
// deletes absent rows child-to-parent.
func (s *Store) writeState(tx *sql.Tx, state *domain.State) error {
	boardIDs := map[string]bool{}
	for _, b := range state.Boards {
		boardIDs[b.ID] = true
	}
	columnIDs := map[string]bool{}
	for _, c := range state.Columns {
		columnIDs[c.ID] = true
	}
	sprintIDs := map[string]bool{}
	for _, sp := range state.Sprints {
		sprintIDs[sp.ID] = true
	}
	cardIDs := map[string]bool{}
	for _, c := range state.Cards {
		cardIDs[c.ID] = true
	}
	archivedIDs := map[string]bool{}
	for _, a := range state.ArchivedCards {
		archivedIDs[a.Card.ID] = true
	}

	// Edges carry no identity of their own; replace wholesale.
	if _, err := tx.Exec(`DELETE FROM edges`); err != nil {
		return domain.Databasef(err, "clearing edges")
	}
	for i := range state.Boards {
		if err := upsertBoard(tx, &state.Boards[i]); err != nil {
			return err
		}
	}
	for i := range state.Columns {
		if err := upsertColumn(tx, &state.Columns[i]); err != nil {
			return err
		}
	}
	for i := range state.Sprints {
		if err := upsertSprint(tx, &state.Sprints[i]); err != nil {
			return err
		}
	}
	for i := range state.Cards {
		if err := upsertCard(tx, &state.Cards[i]); err != nil {
			return err
		}
	}
	for i := range state.ArchivedCards {
		if err := upsertArchivedCard(tx, &state.ArchivedCards[i]); err != nil {
			return err
		}
	}

	// Deletes run after the upserts: a surviving card may still point at
	// a removed sprint or column on disk until its row is rewritten.
	for _, table := range []struct {
		name string
		keep map[string]bool
	}{
		{"archived_cards", archivedIDs},
		{"cards", cardIDs},
		{"sprints", sprintIDs},
		{"columns", columnIDs},
		{"boards", boardIDs},
	} {
		if err := deleteAbsent(tx, table.name, table.keep); err != nil {
			return err
		}
	}

	for _, e := range state.Graph.Edges {
		_, err := tx.Exec(`
			INSERT INTO edges (source, target, label, direction, weight, created_at, archived_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.Source, e.Target, string(e.Label), string(e.Direction), e.Weight,
			fmtTime(e.CreatedAt), fmtTimePtr(e.ArchivedAt))
		if err != nil {
			return domain.Databasef(err, "inserting edge %s -> %s", e.Source, e.Target)
		}
	}
	return nil
}

func deleteAbsent(tx *sql.Tx, table string, keep map[string]bool) error {
	rows, err := tx.Query(`SELECT id FROM ` + table)
	if err != nil {
		return domain.Databasef(err, "listing %s", table)
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return domain.Databasef(err, "scanning %s id", table)
		}
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return domain.Databasef(err, "iterating %s", table)
	}
	rows.Close()
	for _, id := range stale {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
			return domain.Databasef(err, "deleting %s row %s", table, id)
		}
	}
	return nil
}

func upsertBoard(tx *sql.Tx, b *domain.Board) error {
	counters, err := json.Marshal(orEmptyMap(b.SprintCounters))
	if err != nil {
		return domain.Serializationf(err, "encoding sprint counters")
	}
	names, err := json.Marshal(orEmptySlice(b.SprintNames))
	if err != nil {
		return domain.Serializationf(err, "encoding sprint names")
	}
	_, err = tx.Exec(`
		INSERT INTO boards (id, name, description, card_prefix, sprint_prefix, next_card_number,
			sprint_counters, sprint_names, sprint_names_used, sort_field, sort_order,
			active_sprint_id, completion_column_id, view_mode, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description,
			card_prefix = excluded.card_prefix, sprint_prefix = excluded.sprint_prefix,
			next_card_number = excluded.next_card_number, sprint_counters = excluded.sprint_counters,
			sprint_names = excluded.sprint_names, sprint_names_used = excluded.sprint_names_used,
			sort_field = excluded.sort_field, sort_order = excluded.sort_order,
			active_sprint_id = excluded.active_sprint_id,
			completion_column_id = excluded.completion_column_id,
			view_mode = excluded.view_mode, created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		b.ID, b.Name, b.Description, b.CardPrefix, b.SprintPrefix, b.NextCardNumber,
		string(counters), string(names), b.SprintNamesUsed, string(b.SortField), string(b.SortOrder),
		b.ActiveSprintID, b.CompletionColumnID, string(b.ViewMode),
		fmtTime(b.CreatedAt), fmtTime(b.UpdatedAt))
	if err != nil {
		return domain.Databasef(err, "upserting board %s", b.ID)
	}
	return nil
}

func upsertColumn(tx *sql.Tx, c *domain.Column) error {
	_, err := tx.Exec(`
		INSERT INTO columns (id, board_id, name, position, wip_limit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET board_id = excluded.board_id, name = excluded.name,
			position = excluded.position, wip_limit = excluded.wip_limit,
			created_at = excluded.created_at, updated_at = excluded.updated_at`,
		c.ID, c.BoardID, c.Name, c.Position, c.WIPLimit, fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt))
	if err != nil {
		return domain.Databasef(err, "upserting column %s", c.ID)
	}
	return nil
}

func upsertSprint(tx *sql.Tx, sp *domain.Sprint) error {
	_, err := tx.Exec(`
		INSERT INTO sprints (id, board_id, sprint_number, name_index, prefix, card_prefix,
			status, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET board_id = excluded.board_id,
			sprint_number = excluded.sprint_number, name_index = excluded.name_index,
			prefix = excluded.prefix, card_prefix = excluded.card_prefix,
			status = excluded.status, start_date = excluded.start_date,
			end_date = excluded.end_date, created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		sp.ID, sp.BoardID, sp.SprintNumber, sp.NameIndex, sp.Prefix, sp.CardPrefix,
		string(sp.Status), fmtTimePtr(sp.StartDate), fmtTimePtr(sp.EndDate),
		fmtTime(sp.CreatedAt), fmtTime(sp.UpdatedAt))
	if err != nil {
		return domain.Databasef(err, "upserting sprint %s", sp.ID)
	}
	return nil
}

func upsertCard(tx *sql.Tx, c *domain.Card) error {
	logs, err := json.Marshal(orEmptyLogs(c.SprintLogs))
	if err != nil {
		return domain.Serializationf(err, "encoding sprint logs")
	}
	_, err = tx.Exec(`
		INSERT INTO cards (id, column_id, title, description, priority, status, position,
			due_date, points, card_number, sprint_id, card_prefix, sprint_logs,
			completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET column_id = excluded.column_id, title = excluded.title,
			description = excluded.description, priority = excluded.priority,
			status = excluded.status, position = excluded.position,
			due_date = excluded.due_date, points = excluded.points,
			card_number = excluded.card_number, sprint_id = excluded.sprint_id,
			card_prefix = excluded.card_prefix, sprint_logs = excluded.sprint_logs,
			completed_at = excluded.completed_at, created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		c.ID, c.ColumnID, c.Title, c.Description, string(c.Priority), string(c.Status), c.Position,
		fmtTimePtr(c.DueDate), c.Points, c.CardNumber, c.SprintID, c.CardPrefix, string(logs),
		fmtTimePtr(c.CompletedAt), fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt))
	if err != nil {
		return domain.Databasef(err, "upserting card %s", c.ID)
	}
	return nil
}

func upsertArchivedCard(tx *sql.Tx, a *domain.ArchivedCard) error {
	blob, err := json.Marshal(a.Card)
	if err != nil {
		return domain.Serializationf(err, "encoding archived card %s", a.Card.ID)
	}
	_, err = tx.Exec(`
		INSERT INTO archived_cards (id, card, original_column_id, original_position, archived_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET card = excluded.card,
			original_column_id = excluded.original_column_id,
			original_position = excluded.original_position,
			archived_at = excluded.archived_at`,
		a.Card.ID, string(blob), a.OriginalColumnID, a.OriginalPosition, fmtTime(a.ArchivedAt))
	if err != nil {
		return domain.Databasef(err, "upserting archived card %s", a.Card.ID)
	}
	return nil
}

func readState(tx *sql.Tx) (*domain.State, error) {
	state := &domain.State{}

	rows, err := tx.Query(`
		SELECT id, name, description, card_prefix, sprint_prefix, next_card_number,
			sprint_counters, sprint_names, sprint_names_used, sort_field, sort_order,
			active_sprint_id, completion_column_id, view_mode, created_at, updated_at
		FROM boards`)
	if err != nil {
		return nil, domain.Databasef(err, "reading boards")
	}
	for rows.Next() {
		var b domain.Board
		var counters, names, sortField, sortOrder, viewMode, createdAt, updatedAt string
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.CardPrefix, &b.SprintPrefix,
			&b.NextCardNumber, &counters, &names, &b.SprintNamesUsed, &sortField, &sortOrder,
			&b.ActiveSprintID, &b.CompletionColumnID, &viewMode, &createdAt, &updatedAt); err != nil {
			rows.Close()
			return nil, domain.Databasef(err, "scanning board")
		}
		if err := json.Unmarshal([]byte(counters), &b.SprintCounters); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "decoding sprint counters")
		}
		if err := json.Unmarshal([]byte(names), &b.SprintNames); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "decoding sprint names")
		}
		b.SortField = domain.SortField(sortField)
		b.SortOrder = domain.SortOrder(sortOrder)
		b.ViewMode = domain.ViewMode(viewMode)
		if b.CreatedAt, err = parseTime(createdAt); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing board created_at")
		}
		if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing board updated_at")
		}
		state.Boards = append(state.Boards, b)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = tx.Query(`SELECT id, board_id, name, position, wip_limit, created_at, updated_at FROM columns`)
	if err != nil {
		return nil, domain.Databasef(err, "reading columns")
	}
	for rows.Next() {
		var c domain.Column
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Name, &c.Position, &c.WIPLimit, &createdAt, &updatedAt); err != nil {
			rows.Close()
			return nil, domain.Databasef(err, "scanning column")
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing column created_at")
		}
		if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing column updated_at")
		}
		state.Columns = append(state.Columns, c)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = tx.Query(`
		SELECT id, board_id, sprint_number, name_index, prefix, card_prefix, status,
			start_date, end_date, created_at, updated_at
		FROM sprints`)
	if err != nil {
		return nil, domain.Databasef(err, "reading sprints")
	}
	for rows.Next() {
		var sp domain.Sprint
		var status, createdAt, updatedAt string
		var startDate, endDate *string
		if err := rows.Scan(&sp.ID, &sp.BoardID, &sp.SprintNumber, &sp.NameIndex, &sp.Prefix,
			&sp.CardPrefix, &status, &startDate, &endDate, &createdAt, &updatedAt); err != nil {
			rows.Close()
			return nil, domain.Databasef(err, "scanning sprint")
		}
		sp.Status = domain.SprintStatus(status)
		if sp.StartDate, err = parseTimePtr(startDate); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing sprint start_date")
		}
		if sp.EndDate, err = parseTimePtr(endDate); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing sprint end_date")
		}
		if sp.CreatedAt, err = parseTime(createdAt); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing sprint created_at")
		}
		if sp.UpdatedAt, err = parseTime(updatedAt); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing sprint updated_at")
		}
		state.Sprints = append(state.Sprints, sp)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = tx.Query(`
		SELECT id, column_id, title, description, priority, status, position, due_date,
			points, card_number, sprint_id, card_prefix, sprint_logs, completed_at,
			created_at, updated_at
		FROM cards`)
	if err != nil {
		return nil, domain.Databasef(err, "reading cards")
	}
	for rows.Next() {
		var c domain.Card
		var priority, status, logs, createdAt, updatedAt string
		var dueDate, completedAt *string
		if err := rows.Scan(&c.ID, &c.ColumnID, &c.Title, &c.Description, &priority, &status,
			&c.Position, &dueDate, &c.Points, &c.CardNumber, &c.SprintID, &c.CardPrefix,
			&logs, &completedAt, &createdAt, &updatedAt); err != nil {
			rows.Close()
			return nil, domain.Databasef(err, "scanning card")
		}
		c.Priority = domain.Priority(priority)
		c.Status = domain.Status(status)
		if err := json.Unmarshal([]byte(logs), &c.SprintLogs); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "decoding sprint logs")
		}
		if c.DueDate, err = parseTimePtr(dueDate); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing card due_date")
		}
		if c.CompletedAt, err = parseTimePtr(completedAt); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing card completed_at")
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing card created_at")
		}
		if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing card updated_at")
		}
		state.Cards = append(state.Cards, c)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = tx.Query(`SELECT card, original_column_id, original_position, archived_at FROM archived_cards`)
	if err != nil {
		return nil, domain.Databasef(err, "reading archived cards")
	}
	for rows.Next() {
		var a domain.ArchivedCard
		var blob, archivedAt string
		if err := rows.Scan(&blob, &a.OriginalColumnID, &a.OriginalPosition, &archivedAt); err != nil {
			rows.Close()
			return nil, domain.Databasef(err, "scanning archived card")
		}
		if err := json.Unmarshal([]byte(blob), &a.Card); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "decoding archived card")
		}
		if a.ArchivedAt, err = parseTime(archivedAt); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing archived_at")
		}
		state.ArchivedCards = append(state.ArchivedCards, a)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = tx.Query(`SELECT source, target, label, direction, weight, created_at, archived_at FROM edges`)
	if err != nil {
		return nil, domain.Databasef(err, "reading edges")
	}
	for rows.Next() {
		var e graph.Edge
		var label, direction, createdAt string
		var archivedAt *string
		if err := rows.Scan(&e.Source, &e.Target, &label, &direction, &e.Weight, &createdAt, &archivedAt); err != nil {
			rows.Close()
			return nil, domain.Databasef(err, "scanning edge")
		}
		e.Label = graph.Label(label)
		e.Direction = graph.Direction(direction)
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing edge created_at")
		}
		if e.ArchivedAt, err = parseTimePtr(archivedAt); err != nil {
			rows.Close()
			return nil, domain.Serializationf(err, "parsing edge archived_at")
		}
		state.Graph.Edges = append(state.Graph.Edges, e)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	return state, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return domain.Databasef(err, "iterating rows")
	}
	return rows.Close()
}

func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func fmtTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := fmtTime(*t)
	return &s
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func orEmptyMap(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyLogs(l []domain.SprintLog) []domain.SprintLog {
	if l == nil {
		return []domain.SprintLog{}
	}
	return l
}
