package mcp

import (
	"context"
	"log/slog"
	"sync"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fulsomenko/kanban-sub000/internal/app"
	"github.com/fulsomenko/kanban-sub000/internal/command"
	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/view"
)

// handler serializes tool calls against the shared workspace. Every
// mutation persists before the call returns.
type handler struct {
	mu     sync.Mutex
	app    *app.App
	logger *slog.Logger
}

// mutate executes a batch and saves the result. The batch has already
// succeeded when the save runs; a save failure still surfaces as the
// tool error so the client knows the change did not stick.
func (h *handler) mutate(ctx context.Context, cmds ...command.Command) error {
	if err := h.app.Execute(cmds...); err != nil {
		return err
	}
	return h.app.Save(ctx)
}

// fieldUpdate folds an optional value and a clear flag into a tri-state
// update. Clear wins over a supplied value.
func fieldUpdate[T any](value *T, clear bool) domain.FieldUpdate[T] {
	if clear {
		return domain.Clear[T]()
	}
	if value != nil {
		return domain.Set(*value)
	}
	return domain.NoChange[T]()
}

func registerTools(server *sdkmcp.Server, application *app.App, logger *slog.Logger) {
	h := &handler{app: application, logger: logger}

	// Boards
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_board",
		Description: "Create a new kanban board",
	}, h.createBoard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_boards",
		Description: "List all boards with column and card counts",
	}, h.listBoards)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_board",
		Description: "Get a board with its columns, cards, and sprints",
	}, h.getBoard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_board",
		Description: "Update board fields; omitted fields are left alone",
	}, h.updateBoard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_board",
		Description: "Delete a board and everything it owns",
	}, h.deleteBoard)

	// Columns
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_column",
		Description: "Add a column to a board",
	}, h.createColumn)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_column",
		Description: "Update column fields; omitted fields are left alone",
	}, h.updateColumn)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "swap_columns",
		Description: "Swap the positions of two columns on the same board",
	}, h.swapColumns)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "compact_column_positions",
		Description: "Re-index a column's card positions to 0..N in current order",
	}, h.compactColumnPositions)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_column",
		Description: "Delete an empty column",
	}, h.deleteColumn)

	// Cards
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_card",
		Description: "Create a card at the end of a column",
	}, h.createCard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_subcard",
		Description: "Create a card in the parent's column, linked under the parent",
	}, h.createSubcard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_card",
		Description: "Get a single card",
	}, h.getCard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_cards",
		Description: "List cards with optional filters, search, and sorting",
	}, h.listCards)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_card",
		Description: "Update card fields; omitted fields are left alone",
	}, h.updateCard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_card",
		Description: "Move a card to a column, appending unless a position is given",
	}, h.moveCard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "toggle_card_completion",
		Description: "Toggle a card between done and not done, moving it per the board's completion column",
	}, h.toggleCardCompletion)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "archive_card",
		Description: "Move a card to the archive, suspending its dependencies",
	}, h.archiveCard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "restore_card",
		Description: "Restore an archived card to its original or a chosen column",
	}, h.restoreCard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_card",
		Description: "Permanently delete an archived card and its dependency edges",
	}, h.deleteCard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_branch_name",
		Description: "Derive the git branch name and checkout command for a card",
	}, h.getBranchName)

	// Sprints
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_sprint",
		Description: "Create a sprint in planning state",
	}, h.createSprint)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_sprints",
		Description: "List the sprints of a board",
	}, h.listSprints)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_sprint",
		Description: "Get a sprint with its member cards split into completed and uncompleted",
	}, h.getSprint)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "activate_sprint",
		Description: "Activate a sprint and make it the board's active sprint",
	}, h.activateSprint)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "complete_sprint",
		Description: "Complete an active sprint",
	}, h.completeSprint)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "cancel_sprint",
		Description: "Cancel a planning or active sprint",
	}, h.cancelSprint)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_sprint",
		Description: "Delete a sprint, unassigning its cards",
	}, h.deleteSprint)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "assign_card_to_sprint",
		Description: "Assign a card to a sprint",
	}, h.assignCardToSprint)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "unassign_card_from_sprint",
		Description: "Remove a card from its sprint",
	}, h.unassignCardFromSprint)

	// Dependencies
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_dependency",
		Description: "Link two cards: blocks, relates_to, or parent (source is the parent)",
	}, h.addDependency)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "remove_dependency",
		Description: "Remove every link between two cards",
	}, h.removeDependency)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_card_links",
		Description: "Get a card's blockers, related cards, parent, children, and whether it can start",
	}, h.getCardLinks)

	// History
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "undo",
		Description: "Revert the most recent change",
	}, h.undo)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "redo",
		Description: "Reapply the most recently undone change",
	}, h.redo)
}

type CreateBoardParams struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (h *handler) createBoard(ctx context.Context, req *sdkmcp.CallToolRequest, args CreateBoardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cmd := &command.CreateBoard{Name: args.Name, Desc: args.Description}
	if err := h.mutate(ctx, cmd); err != nil {
		return nil, nil, mapError(err)
	}
	st := h.app.State()
	board, err := st.Board(cmd.CreatedID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, boardResponse(st, board), nil
}

func (h *handler) listBoards(ctx context.Context, req *sdkmcp.CallToolRequest, args struct{}) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.app.State()
	items := make([]BoardResponse, 0, len(st.Boards))
	for i := range st.Boards {
		items = append(items, boardResponse(st, &st.Boards[i]))
	}
	return nil, ListResponse[BoardResponse]{Count: len(items), Items: items}, nil
}

type GetBoardParams struct {
	ID string `json:"id"`
}

func (h *handler) getBoard(ctx context.Context, req *sdkmcp.CallToolRequest, args GetBoardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.app.State()
	board, err := st.Board(args.ID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	columns := st.ColumnsForBoard(board.ID)
	detail := BoardDetailResponse{Board: boardResponse(st, board)}
	for i := range columns {
		cards := st.CardsInColumn(columns[i].ID)
		withCards := ColumnWithCards{Column: columnResponse(&columns[i])}
		for j := range cards {
			withCards.Cards = append(withCards.Cards, cardResponse(st, &cards[j]))
		}
		detail.Columns = append(detail.Columns, withCards)
	}
	for _, sp := range st.SprintsForBoard(board.ID) {
		detail.Sprints = append(detail.Sprints, sprintResponse(board, &sp))
	}
	return nil, detail, nil
}

type UpdateBoardParams struct {
	ID                 string   `json:"id"`
	Name               *string  `json:"name,omitempty"`
	Description        *string  `json:"description,omitempty"`
	ClearDescription   bool     `json:"clear_description,omitempty"`
	CardPrefix         *string  `json:"card_prefix,omitempty"`
	SprintPrefix       *string  `json:"sprint_prefix,omitempty"`
	SprintNames        []string `json:"sprint_names,omitempty"`
	SortField          *string  `json:"sort_field,omitempty"`
	SortOrder          *string  `json:"sort_order,omitempty"`
	ActiveSprintID     *string  `json:"active_sprint_id,omitempty"`
	CompletionColumnID *string  `json:"completion_column_id,omitempty"`
	ClearCompletion    bool     `json:"clear_completion_column,omitempty"`
}

func (h *handler) updateBoard(ctx context.Context, req *sdkmcp.CallToolRequest, args UpdateBoardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	update := domain.BoardUpdate{
		Name:               fieldUpdate(args.Name, false),
		Description:        fieldUpdate(args.Description, args.ClearDescription),
		CardPrefix:         fieldUpdate(args.CardPrefix, false),
		SprintPrefix:       fieldUpdate(args.SprintPrefix, false),
		ActiveSprintID:     fieldUpdate(args.ActiveSprintID, false),
		CompletionColumnID: fieldUpdate(args.CompletionColumnID, args.ClearCompletion),
	}
	if args.SprintNames != nil {
		update.SprintNames = domain.Set(args.SprintNames)
	}
	if args.SortField != nil {
		update.SortField = domain.Set(domain.SortField(*args.SortField))
	}
	if args.SortOrder != nil {
		update.SortOrder = domain.Set(domain.SortOrder(*args.SortOrder))
	}
	if err := h.mutate(ctx, &command.UpdateBoard{BoardID: args.ID, Update: update}); err != nil {
		return nil, nil, mapError(err)
	}
	st := h.app.State()
	board, err := st.Board(args.ID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, boardResponse(st, board), nil
}

type DeleteBoardParams struct {
	ID string `json:"id"`
}

func (h *handler) deleteBoard(ctx context.Context, req *sdkmcp.CallToolRequest, args DeleteBoardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.DeleteBoard{BoardID: args.ID}); err != nil {
		return nil, nil, mapError(err)
	}
	return nil, StatusResponse{Status: "deleted", ID: args.ID}, nil
}

type CreateColumnParams struct {
	BoardID  string `json:"board_id"`
	Name     string `json:"name"`
	Position *int   `json:"position,omitempty"`
	WIPLimit *int   `json:"wip_limit,omitempty"`
}

func (h *handler) createColumn(ctx context.Context, req *sdkmcp.CallToolRequest, args CreateColumnParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cmd := &command.CreateColumn{
		BoardID:  args.BoardID,
		Name:     args.Name,
		Position: args.Position,
		WIPLimit: args.WIPLimit,
	}
	if err := h.mutate(ctx, cmd); err != nil {
		return nil, nil, mapError(err)
	}
	column, err := h.app.State().Column(cmd.CreatedID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, columnResponse(column), nil
}

type UpdateColumnParams struct {
	ID            string  `json:"id"`
	Name          *string `json:"name,omitempty"`
	Position      *int    `json:"position,omitempty"`
	WIPLimit      *int    `json:"wip_limit,omitempty"`
	ClearWIPLimit bool    `json:"clear_wip_limit,omitempty"`
}

func (h *handler) updateColumn(ctx context.Context, req *sdkmcp.CallToolRequest, args UpdateColumnParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	update := domain.ColumnUpdate{
		Name:     fieldUpdate(args.Name, false),
		Position: fieldUpdate(args.Position, false),
		WIPLimit: fieldUpdate(args.WIPLimit, args.ClearWIPLimit),
	}
	if err := h.mutate(ctx, &command.UpdateColumn{ColumnID: args.ID, Update: update}); err != nil {
		return nil, nil, mapError(err)
	}
	column, err := h.app.State().Column(args.ID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, columnResponse(column), nil
}

type SwapColumnsParams struct {
	FirstID  string `json:"first_id"`
	SecondID string `json:"second_id"`
}

func (h *handler) swapColumns(ctx context.Context, req *sdkmcp.CallToolRequest, args SwapColumnsParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.SwapColumns{ColumnA: args.FirstID, ColumnB: args.SecondID}); err != nil {
		return nil, nil, mapError(err)
	}
	return nil, StatusResponse{Status: "ok"}, nil
}

type ColumnIDParams struct {
	ID string `json:"id"`
}

func (h *handler) compactColumnPositions(ctx context.Context, req *sdkmcp.CallToolRequest, args ColumnIDParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.CompactColumnPositions{ColumnID: args.ID}); err != nil {
		return nil, nil, mapError(err)
	}
	return nil, StatusResponse{Status: "ok", ID: args.ID}, nil
}

type DeleteColumnParams struct {
	ID string `json:"id"`
}

func (h *handler) deleteColumn(ctx context.Context, req *sdkmcp.CallToolRequest, args DeleteColumnParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.DeleteColumn{ColumnID: args.ID}); err != nil {
		return nil, nil, mapError(err)
	}
	return nil, StatusResponse{Status: "deleted", ID: args.ID}, nil
}

type CreateCardParams struct {
	ColumnID    string     `json:"column_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Points      *int       `json:"points,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (h *handler) createCard(ctx context.Context, req *sdkmcp.CallToolRequest, args CreateCardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cmd := &command.CreateCard{
		ColumnID: args.ColumnID,
		Title:    args.Title,
		Desc:     args.Description,
		Points:   args.Points,
		DueDate:  args.DueDate,
	}
	if args.Priority != nil {
		p, err := domain.ParsePriority(*args.Priority)
		if err != nil {
			return nil, nil, mapError(err)
		}
		cmd.Priority = &p
	}
	if err := h.mutate(ctx, cmd); err != nil {
		return nil, nil, mapError(err)
	}
	st := h.app.State()
	card, err := st.Card(cmd.CreatedID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, cardResponse(st, card), nil
}

type CreateSubcardParams struct {
	ParentID string `json:"parent_id"`
	Title    string `json:"title"`
}

func (h *handler) createSubcard(ctx context.Context, req *sdkmcp.CallToolRequest, args CreateSubcardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cmd := &command.CreateSubcard{ParentID: args.ParentID, Title: args.Title}
	if err := h.mutate(ctx, cmd); err != nil {
		return nil, nil, mapError(err)
	}
	st := h.app.State()
	card, err := st.Card(cmd.CreatedID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, cardResponse(st, card), nil
}

type GetCardParams struct {
	ID string `json:"id"`
}

func (h *handler) getCard(ctx context.Context, req *sdkmcp.CallToolRequest, args GetCardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.app.State()
	card, err := st.Card(args.ID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, cardResponse(st, card), nil
}

type ListCardsParams struct {
	BoardID        string   `json:"board_id"`
	ColumnID       *string  `json:"column_id,omitempty"`
	SprintIDs      []string `json:"sprint_ids,omitempty"`
	UnassignedOnly bool     `json:"unassigned_only,omitempty"`
	Query          string   `json:"query,omitempty"`
	SortField      *string  `json:"sort_field,omitempty"`
	SortOrder      *string  `json:"sort_order,omitempty"`
}

func (h *handler) listCards(ctx context.Context, req *sdkmcp.CallToolRequest, args ListCardsParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.app.State()
	board, err := st.Board(args.BoardID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	rc := &view.RefreshContext{
		Board:               board,
		Cards:               st.CardsForBoard(board.ID),
		Columns:             st.ColumnsForBoard(board.ID),
		Sprints:             st.SprintsForBoard(board.ID),
		ActiveSprintFilters: args.SprintIDs,
		HideAssigned:        args.UnassignedOnly,
		SearchQuery:         args.Query,
	}
	if args.SortField != nil {
		board = cloneBoardWithSort(board, args.SortField, args.SortOrder)
		rc.Board = board
	}
	var filters []view.Filter
	if args.ColumnID != nil {
		filters = append(filters, &view.ColumnFilter{ColumnID: *args.ColumnID})
	}
	cards := view.ApplyRefresh(rc, filters...)
	items := make([]CardResponse, 0, len(cards))
	for i := range cards {
		items = append(items, cardResponse(st, &cards[i]))
	}
	return nil, ListResponse[CardResponse]{Count: len(items), Items: items}, nil
}

func cloneBoardWithSort(board *domain.Board, field, order *string) *domain.Board {
	b := *board
	if field != nil {
		b.SortField = domain.SortField(*field)
	}
	if order != nil {
		b.SortOrder = domain.SortOrder(*order)
	}
	return &b
}

type UpdateCardParams struct {
	ID               string     `json:"id"`
	Title            *string    `json:"title,omitempty"`
	Description      *string    `json:"description,omitempty"`
	ClearDescription bool       `json:"clear_description,omitempty"`
	Priority         *string    `json:"priority,omitempty"`
	Status           *string    `json:"status,omitempty"`
	Position         *int       `json:"position,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	ClearDueDate     bool       `json:"clear_due_date,omitempty"`
	Points           *int       `json:"points,omitempty"`
	ClearPoints      bool       `json:"clear_points,omitempty"`
	CardPrefix       *string    `json:"card_prefix,omitempty"`
}

func (h *handler) updateCard(ctx context.Context, req *sdkmcp.CallToolRequest, args UpdateCardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	update := domain.CardUpdate{
		Title:       fieldUpdate(args.Title, false),
		Description: fieldUpdate(args.Description, args.ClearDescription),
		Position:    fieldUpdate(args.Position, false),
		DueDate:     fieldUpdate(args.DueDate, args.ClearDueDate),
		Points:      fieldUpdate(args.Points, args.ClearPoints),
		CardPrefix:  fieldUpdate(args.CardPrefix, false),
	}
	if args.Priority != nil {
		p, err := domain.ParsePriority(*args.Priority)
		if err != nil {
			return nil, nil, mapError(err)
		}
		update.Priority = domain.Set(p)
	}
	if args.Status != nil {
		s, err := domain.ParseStatus(*args.Status)
		if err != nil {
			return nil, nil, mapError(err)
		}
		update.Status = domain.Set(s)
	}
	if err := h.mutate(ctx, &command.UpdateCard{CardID: args.ID, Update: update}); err != nil {
		return nil, nil, mapError(err)
	}
	st := h.app.State()
	card, err := st.Card(args.ID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, cardResponse(st, card), nil
}

type MoveCardParams struct {
	ID        string  `json:"id"`
	ColumnID  *string `json:"column_id,omitempty"`
	Position  *int    `json:"position,omitempty"`
	Direction *string `json:"direction,omitempty"`
}

func (h *handler) moveCard(ctx context.Context, req *sdkmcp.CallToolRequest, args MoveCardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var cmd command.Command
	switch {
	case args.Direction != nil:
		dir := domain.MoveLeft
		if *args.Direction == "right" {
			dir = domain.MoveRight
		}
		cmd = &command.MoveCardDirection{CardID: args.ID, Direction: dir}
	case args.ColumnID != nil:
		cmd = &command.MoveCard{CardID: args.ID, ColumnID: *args.ColumnID, Position: args.Position}
	default:
		return nil, nil, mapError(domain.Validationf("either column_id or direction is required"))
	}
	if err := h.mutate(ctx, cmd); err != nil {
		return nil, nil, mapError(err)
	}
	st := h.app.State()
	card, err := st.Card(args.ID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, cardResponse(st, card), nil
}

type ToggleCardParams struct {
	ID string `json:"id"`
}

func (h *handler) toggleCardCompletion(ctx context.Context, req *sdkmcp.CallToolRequest, args ToggleCardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.ToggleCardCompletion{CardID: args.ID}); err != nil {
		return nil, nil, mapError(err)
	}
	st := h.app.State()
	card, err := st.Card(args.ID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, cardResponse(st, card), nil
}

type ArchiveCardParams struct {
	ID string `json:"id"`
}

func (h *handler) archiveCard(ctx context.Context, req *sdkmcp.CallToolRequest, args ArchiveCardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.ArchiveCard{CardID: args.ID}); err != nil {
		return nil, nil, mapError(err)
	}
	return nil, StatusResponse{Status: "archived", ID: args.ID}, nil
}

type RestoreCardParams struct {
	ID       string  `json:"id"`
	ColumnID *string `json:"column_id,omitempty"`
}

func (h *handler) restoreCard(ctx context.Context, req *sdkmcp.CallToolRequest, args RestoreCardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.RestoreCard{CardID: args.ID, ColumnID: args.ColumnID}); err != nil {
		return nil, nil, mapError(err)
	}
	st := h.app.State()
	card, err := st.Card(args.ID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, cardResponse(st, card), nil
}

type DeleteCardParams struct {
	ID string `json:"id"`
}

func (h *handler) deleteCard(ctx context.Context, req *sdkmcp.CallToolRequest, args DeleteCardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.DeleteCard{CardID: args.ID}); err != nil {
		return nil, nil, mapError(err)
	}
	return nil, StatusResponse{Status: "deleted", ID: args.ID}, nil
}

type BranchNameParams struct {
	ID string `json:"id"`
}

func (h *handler) getBranchName(ctx context.Context, req *sdkmcp.CallToolRequest, args BranchNameParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.app.State()
	card, err := st.Card(args.ID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	board, err := st.BoardForCard(card)
	if err != nil {
		return nil, nil, mapError(err)
	}
	sprint := st.SprintForCard(card)
	return nil, BranchNameResponse{
		CardID:   card.ID,
		Branch:   domain.BranchName(card, sprint, board, domain.DefaultCardPrefix),
		Checkout: domain.CheckoutCommand(card, sprint, board, domain.DefaultCardPrefix),
	}, nil
}

type CreateSprintParams struct {
	BoardID    string     `json:"board_id"`
	Prefix     *string    `json:"prefix,omitempty"`
	CardPrefix *string    `json:"card_prefix,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

func (h *handler) createSprint(ctx context.Context, req *sdkmcp.CallToolRequest, args CreateSprintParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cmd := &command.CreateSprint{
		BoardID:    args.BoardID,
		Prefix:     args.Prefix,
		CardPrefix: args.CardPrefix,
		StartDate:  args.StartDate,
		EndDate:    args.EndDate,
	}
	if err := h.mutate(ctx, cmd); err != nil {
		return nil, nil, mapError(err)
	}
	st := h.app.State()
	sprint, err := st.Sprint(cmd.CreatedID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	board, err := st.Board(sprint.BoardID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, sprintResponse(board, sprint), nil
}

type ListSprintsParams struct {
	BoardID string `json:"board_id"`
}

func (h *handler) listSprints(ctx context.Context, req *sdkmcp.CallToolRequest, args ListSprintsParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.app.State()
	board, err := st.Board(args.BoardID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	sprints := st.SprintsForBoard(board.ID)
	items := make([]SprintResponse, 0, len(sprints))
	for i := range sprints {
		items = append(items, sprintResponse(board, &sprints[i]))
	}
	return nil, ListResponse[SprintResponse]{Count: len(items), Items: items}, nil
}

func (h *handler) getSprint(ctx context.Context, req *sdkmcp.CallToolRequest, args SprintIDParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.app.State()
	sprint, err := st.Sprint(args.ID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	board, err := st.Board(sprint.BoardID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	completed, uncompleted := domain.PartitionByCompletion(st.CardsForSprint(sprint.ID))
	detail := SprintDetailResponse{Sprint: sprintResponse(board, sprint)}
	for i := range completed {
		detail.CompletedCards = append(detail.CompletedCards, cardResponse(st, &completed[i]))
	}
	for i := range uncompleted {
		detail.UncompletedCards = append(detail.UncompletedCards, cardResponse(st, &uncompleted[i]))
	}
	return nil, detail, nil
}

type ActivateSprintParams struct {
	ID           string     `json:"id"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	DurationDays int        `json:"duration_days,omitempty"`
}

func (h *handler) activateSprint(ctx context.Context, req *sdkmcp.CallToolRequest, args ActivateSprintParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.ActivateSprint{
		SprintID:     args.ID,
		StartDate:    args.StartDate,
		DurationDays: args.DurationDays,
	}); err != nil {
		return nil, nil, mapError(err)
	}
	return h.sprintResult(args.ID)
}

type SprintIDParams struct {
	ID string `json:"id"`
}

func (h *handler) completeSprint(ctx context.Context, req *sdkmcp.CallToolRequest, args SprintIDParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.CompleteSprint{SprintID: args.ID}); err != nil {
		return nil, nil, mapError(err)
	}
	return h.sprintResult(args.ID)
}

func (h *handler) cancelSprint(ctx context.Context, req *sdkmcp.CallToolRequest, args SprintIDParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.CancelSprint{SprintID: args.ID}); err != nil {
		return nil, nil, mapError(err)
	}
	return h.sprintResult(args.ID)
}

func (h *handler) deleteSprint(ctx context.Context, req *sdkmcp.CallToolRequest, args SprintIDParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.DeleteSprint{SprintID: args.ID}); err != nil {
		return nil, nil, mapError(err)
	}
	return nil, StatusResponse{Status: "deleted", ID: args.ID}, nil
}

func (h *handler) sprintResult(id string) (*sdkmcp.CallToolResult, any, error) {
	st := h.app.State()
	sprint, err := st.Sprint(id)
	if err != nil {
		return nil, nil, mapError(err)
	}
	board, err := st.Board(sprint.BoardID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, sprintResponse(board, sprint), nil
}

type AssignCardParams struct {
	CardID   string `json:"card_id"`
	SprintID string `json:"sprint_id"`
}

func (h *handler) assignCardToSprint(ctx context.Context, req *sdkmcp.CallToolRequest, args AssignCardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.AssignCardToSprint{CardID: args.CardID, SprintID: args.SprintID}); err != nil {
		return nil, nil, mapError(err)
	}
	return nil, StatusResponse{Status: "assigned", ID: args.CardID}, nil
}

type UnassignCardParams struct {
	CardID string `json:"card_id"`
}

func (h *handler) unassignCardFromSprint(ctx context.Context, req *sdkmcp.CallToolRequest, args UnassignCardParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.UnassignCardFromSprint{CardID: args.CardID}); err != nil {
		return nil, nil, mapError(err)
	}
	return nil, StatusResponse{Status: "unassigned", ID: args.CardID}, nil
}

type AddDependencyParams struct {
	SourceID string   `json:"source_id"`
	TargetID string   `json:"target_id"`
	Type     string   `json:"type"`
	Weight   *float64 `json:"weight,omitempty"`
}

func (h *handler) addDependency(ctx context.Context, req *sdkmcp.CallToolRequest, args AddDependencyParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var cmd command.Command
	switch args.Type {
	case "blocks":
		cmd = &command.AddBlocks{SourceID: args.SourceID, TargetID: args.TargetID, Weight: args.Weight}
	case "relates_to":
		cmd = &command.AddRelatesTo{SourceID: args.SourceID, TargetID: args.TargetID, Weight: args.Weight}
	case "parent":
		cmd = &command.SetParent{ParentID: args.SourceID, ChildID: args.TargetID}
	default:
		return nil, nil, mapError(domain.Validationf("unknown dependency type %q", args.Type))
	}
	if err := h.mutate(ctx, cmd); err != nil {
		return nil, nil, mapError(err)
	}
	return nil, StatusResponse{Status: "linked"}, nil
}

type RemoveDependencyParams struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

func (h *handler) removeDependency(ctx context.Context, req *sdkmcp.CallToolRequest, args RemoveDependencyParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.mutate(ctx, &command.RemoveDependency{SourceID: args.SourceID, TargetID: args.TargetID}); err != nil {
		return nil, nil, mapError(err)
	}
	return nil, StatusResponse{Status: "unlinked"}, nil
}

type CardLinksParams struct {
	ID string `json:"id"`
}

func (h *handler) getCardLinks(ctx context.Context, req *sdkmcp.CallToolRequest, args CardLinksParams) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.app.State()
	if _, err := st.Card(args.ID); err != nil {
		return nil, nil, mapError(err)
	}
	g := &st.Graph
	return nil, CardLinksResponse{
		CardID:    args.ID,
		Blockers:  g.Blockers(args.ID),
		BlockedBy: g.BlockedBy(args.ID),
		Related:   g.Related(args.ID),
		Parent:    g.Parent(args.ID),
		Children:  g.Children(args.ID),
		CanStart: g.CanStart(args.ID, func(id string) bool {
			card, err := st.Card(id)
			return err == nil && card.Status == domain.StatusDone
		}),
	}, nil
}

func (h *handler) undo(ctx context.Context, req *sdkmcp.CallToolRequest, args struct{}) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.app.Undo(); err != nil {
		return nil, nil, mapError(err)
	}
	if err := h.app.Save(ctx); err != nil {
		return nil, nil, mapError(err)
	}
	return nil, StatusResponse{Status: "undone"}, nil
}

func (h *handler) redo(ctx context.Context, req *sdkmcp.CallToolRequest, args struct{}) (*sdkmcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.app.Redo(); err != nil {
		return nil, nil, mapError(err)
	}
	if err := h.app.Save(ctx); err != nil {
		return nil, nil, mapError(err)
	}
	return nil, StatusResponse{Status: "redone"}, nil
}
