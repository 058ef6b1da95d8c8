package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/crowdhive/crowdhive/internal/entities"
	"github.com/crowdhive/crowdhive/internal/service"
	"github.com/crowdhive/crowdhive/internal/wallet"
)

func (s server) getWallet(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /wallet Wallet GetWallet
	//
	// Returns wallet connection state.
	//
	// ---
	// produces:
	// - application/json
	// responses:
	//   '200':
	//     description: Wallet state
	//     schema:
	//       "$ref": "#/definitions/WalletState"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	state, err := s.Wallet.State(r.Context(), r.UserAgent())
	if err != nil {
		writeInternalErrorf(r.Context(), w, "failed to get wallet state: %s", err.Error())
		return
	}

	writeOK(w, http.StatusOK, toAPIWalletState(state))
}

func (s server) login(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /wallet/login Wallet Login
	//
	// Asks the signer to sign login challenge with posting key.
	//
	// ---
	// responses:
	//   '200':
	//     description: Connected
	//   '400':
	//     description: bad request
	//   '409':
	//     description: rejected by user
	//   '412':
	//     description: signing extension is missing

	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	msg, err := s.Wallet.RequestLogin(r.Context(), username)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeOK(w, http.StatusOK, MessageResponse{Message: msg})
}

func (s server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.Wallet.Disconnect(r.Context()); err != nil {
		writeInternalErrorf(r.Context(), w, "failed to disconnect: %s", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) refresh(w http.ResponseWriter, r *http.Request) {
	if err := s.Wallet.Refresh(r.Context()); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	acc, err := s.Accounts.CachedAccount(r.Context())
	if err != nil {
		writeInternalErrorf(r.Context(), w, "failed to get cached account: %s", err.Error())
		return
	}

	writeOK(w, http.StatusOK, toAPIAccount(acc))
}

func (s server) getCachedAccount(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /account Accounts GetCachedAccount
	//
	// Returns the last fetched account of connected user without calling hive.
	//
	// ---
	// responses:
	//   '200':
	//     description: Account
	//     schema:
	//       "$ref": "#/definitions/Account"
	//   '404':
	//     description: there is no cached account

	acc, err := s.Accounts.CachedAccount(r.Context())
	if err != nil {
		writeInternalErrorf(r.Context(), w, "failed to get cached account: %s", err.Error())
		return
	}

	if acc == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	writeOK(w, http.StatusOK, toAPIAccount(acc))
}

func (s server) getAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := s.Accounts.FetchAccount(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeOK(w, http.StatusOK, toAPIAccount(acc))
}

func (s server) accountExists(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, ExistsResponse{
		Exists: s.Accounts.UsernameExists(r.Context(), chi.URLParam(r, "username")),
	})
}

func (s server) listTransfers(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /accounts/{username}/transfers Transactions ListTransfers
	//
	// Returns recent transfers of the account, newest last.
	//
	// ---
	// parameters:
	// - name: limit
	//   in: query
	//   required: false
	//   default: 20
	//   minimum: 1
	//   maximum: 1000
	// responses:
	//   '200':
	//     description: Transfers
	//     schema:
	//       type: array
	//       items:
	//         "$ref": "#/definitions/Transfer"
	//   '502':
	//     description: hive node is unavailable

	limit, err := extractLimit(r.URL.Query(), defaultHistorySize, maxHistorySize)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	transfers, err := s.Transactions.ListRecentTransfers(r.Context(), chi.URLParam(r, "username"), uint32(limit))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	out := make([]Transfer, len(transfers))
	for i, v := range transfers {
		out[i] = toAPITransfer(v)
	}

	writeOK(w, http.StatusOK, out)
}

func (s server) listProjects(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /projects Projects ListProjects
	//
	// Returns crowdfunding projects. Response is cached for 30 seconds.
	//
	// ---
	// parameters:
	// - name: tag
	//   in: query
	//   required: false
	//   default: crowdhive
	// - name: sort
	//   in: query
	//   required: false
	//   default: created
	//   type: string
	//   enum: [trending, hot, created, promoted, payout, payout_comments, muted]
	// - name: limit
	//   in: query
	//   required: false
	//   default: 20
	//   minimum: 1
	//   maximum: 100
	// - name: observer
	//   in: query
	//   required: false
	// - name: after
	//   description: sets not-including bound for list by project id (`author/permlink`)
	//   in: query
	//   required: false
	//   example: alice/solar-panels-1700000000000
	// responses:
	//   '200':
	//     description: Projects
	//     schema:
	//       type: array
	//       items:
	//         "$ref": "#/definitions/Project"
	//   '400':
	//     description: bad request
	//   '502':
	//     description: hive node is unavailable

	params, err := extractListParamsFromQuery(r.URL.Query())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	projects, err := s.Projects.ListProjects(r.Context(), *params)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	out := make([]Project, len(projects))
	for i, v := range projects {
		out[i] = toAPIProject(v)
	}

	writeOK(w, http.StatusOK, out)
}

func (s server) createProject(w http.ResponseWriter, r *http.Request) {
	username, err := s.username(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	var req CreateProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	permlink, err := s.Projects.CreateProject(r.Context(), service.CreateProjectParams{
		Username:    username,
		Title:       req.Title,
		Body:        req.Body,
		Category:    req.Category,
		FundingGoal: req.FundingGoal,
		CoverImage:  req.CoverImage,
		SocialLinks: entities.SocialLinks(req.SocialLinks),
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeOK(w, http.StatusCreated, CreateProjectResponse{
		ID:       entities.ProjectID(username, permlink),
		Permlink: permlink,
	})
}

func (s server) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.Projects.GetProject(r.Context(), chi.URLParam(r, "author"), chi.URLParam(r, "permlink"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	if p == nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	writeOK(w, http.StatusOK, toAPIProject(p))
}

func (s server) listContributors(w http.ResponseWriter, r *http.Request) {
	limit, err := extractLimit(r.URL.Query(), defaultHistorySize, maxHistorySize)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	list, err := s.Transactions.ListContributions(r.Context(), chi.URLParam(r, "author"), uint32(limit))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	out := make([]Contributor, len(list))
	for i, v := range list {
		out[i] = toAPIContributor(*v)
	}

	writeOK(w, http.StatusOK, out)
}

func (s server) sendTokens(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /transfers Transactions SendTokens
	//
	// Sends HIVE from connected account. The transfer is signed by the signer with active key.
	//
	// ---
	// responses:
	//   '200':
	//     description: Sent
	//   '400':
	//     description: bad request
	//   '401':
	//     description: wallet is not connected
	//   '409':
	//     description: rejected by user
	//   '412':
	//     description: signing extension is missing

	from, err := s.username(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	var req TransferRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	txID, err := s.Transactions.SendTokens(r.Context(), from, req.To, req.Amount, req.Memo)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	resp := TransferResponse{TransactionID: txID}
	if txID != "" {
		resp.ExplorerURL = s.Transactions.ExplorerURL(txID)
	}

	writeOK(w, http.StatusOK, resp)
}

func (s server) getPrice(w http.ResponseWriter, r *http.Request) {
	amount := r.URL.Query().Get("amount")
	if amount == "" {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}

	writeOK(w, http.StatusOK, PriceResponse{
		Amount: amount,
		USD:    s.Transactions.ConvertToApproxUSD(r.Context(), amount),
	})
}

func (s server) getExplorerURL(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, ExplorerResponse{
		URL: s.Transactions.ExplorerURL(chi.URLParam(r, "txID")),
	})
}

func (s server) listBookmarks(w http.ResponseWriter, r *http.Request) {
	list, err := s.Bookmarks.List(r.Context())
	if err != nil {
		writeInternalErrorf(r.Context(), w, "failed to list bookmarks: %s", err.Error())
		return
	}

	writeOK(w, http.StatusOK, list)
}

func (s server) toggleBookmark(w http.ResponseWriter, r *http.Request) {
	bookmarked, err := s.Bookmarks.Toggle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeOK(w, http.StatusOK, BookmarkResponse{Bookmarked: bookmarked})
}

func (s server) listDrafts(w http.ResponseWriter, r *http.Request) {
	list, err := s.Drafts.List(r.Context(), r.URL.Query().Get("creator"))
	if err != nil {
		writeInternalErrorf(r.Context(), w, "failed to list drafts: %s", err.Error())
		return
	}

	out := make([]Draft, len(list))
	for i, v := range list {
		out[i] = toAPIDraft(v)
	}

	writeOK(w, http.StatusOK, out)
}

func (s server) createDraft(w http.ResponseWriter, r *http.Request) {
	creator, err := s.username(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	d, err := s.Drafts.Create(r.Context(), creator)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeOK(w, http.StatusCreated, toAPIDraft(d))
}

func (s server) getDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.Drafts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeOK(w, http.StatusOK, toAPIDraft(d))
}

func (s server) saveDraft(w http.ResponseWriter, r *http.Request) {
	var req Draft
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	id := chi.URLParam(r, "id")

	current, err := s.Drafts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	d := fromAPIDraft(req)
	d.ID, d.Creator = id, current.Creator

	saved, err := s.Drafts.Save(r.Context(), d)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeOK(w, http.StatusOK, toAPIDraft(saved))
}

func (s server) deleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.Drafts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) submitDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.Drafts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	permlink, err := s.Drafts.Submit(r.Context(), d.ID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeOK(w, http.StatusCreated, CreateProjectResponse{
		ID:       entities.ProjectID(d.Creator, permlink),
		Permlink: permlink,
	})
}

func (s server) username(ctx context.Context) (string, error) {
	username, err := s.Session.Username(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get username: %w", err)
	}

	if username == "" {
		return "", wallet.ErrNotConnected
	}

	return username, nil
}

func extractListParamsFromQuery(q url.Values) (*service.ListProjectsParams, error) {
	limit, err := extractLimit(q, defaultLimit, maxLimit)
	if err != nil {
		return nil, err
	}

	out := service.ListProjectsParams{
		Tag:      q.Get("tag"),
		Sort:     q.Get("sort"),
		Limit:    uint16(limit),
		Observer: q.Get("observer"),
	}

	if s := q.Get("after"); s != "" {
		p := strings.Split(s, "/")

		if len(p) != 2 || p[0] == "" || p[1] == "" {
			return nil, fmt.Errorf("%w: invalid project id", errInvalidRequest)
		}

		out.After = &service.PostID{
			Author:   p[0],
			Permlink: p[1],
		}
	}

	return &out, nil
}

func extractLimit(q url.Values, def, upper uint64) (uint64, error) {
	s := q.Get("limit")
	if s == "" {
		return def, nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to parse limit", errInvalidRequest)
	}

	if v == 0 || v > upper {
		return 0, fmt.Errorf("%w: limit should be in range [1, %d]", errInvalidRequest, upper)
	}

	return v, nil
}

func toAPIWalletState(s wallet.State) WalletState {
	return WalletState{
		Status:             string(s.Status),
		Username:           s.Username,
		Error:              s.Error,
		ExtensionAvailable: s.ExtensionAvailable,
		DownloadLink:       s.DownloadLink,
	}
}

func toAPIAccount(a *entities.Account) *Account {
	if a == nil {
		return nil
	}

	return &Account{
		Name:          a.Name,
		Balance:       a.Balance,
		HBDBalance:    a.HBDBalance,
		VestingShares: a.VestingShares,
		Reputation:    a.Reputation,
		ProfileImage:  a.ProfileImage,
	}
}

func toAPIProject(p *entities.Project) Project {
	contributors := make([]Contributor, len(p.Contributors))
	for i, v := range p.Contributors {
		contributors[i] = toAPIContributor(v)
	}

	return Project{
		ID:           p.ID(),
		Author:       p.Author,
		Permlink:     p.Permlink,
		Title:        p.Title,
		Creator:      p.Author,
		Description:  p.Description,
		Image:        p.Image,
		Category:     p.Category,
		Target:       p.Target(),
		Raised:       p.RaisedAmount(),
		Progress:     p.Progress,
		CreatedAt:    unix(p.CreatedAt),
		LastUpdate:   unix(p.LastUpdate),
		NetVotes:     p.NetVotes,
		Children:     p.Children,
		Status:       "active",
		Contributors: contributors,
	}
}

func toAPIContributor(c entities.Contributor) Contributor {
	return Contributor{
		Username: c.Username,
		Amount:   c.Amount,
		Date:     unix(c.Date),
		TxID:     c.TxID,
	}
}

func toAPITransfer(t *entities.Transfer) Transfer {
	return Transfer{
		From:          t.From,
		To:            t.To,
		Amount:        t.Amount,
		Memo:          t.Memo,
		Timestamp:     unix(t.Timestamp),
		TransactionID: t.TransactionID,
	}
}

func toAPIDraft(d *entities.Draft) Draft {
	return Draft{
		ID:            d.ID,
		Title:         d.Title,
		Category:      d.Category,
		FundingGoal:   d.FundingGoal,
		Description:   d.Description,
		CoverImage:    d.CoverImage,
		SocialLinks:   SocialLinks(d.SocialLinks),
		TermsAccepted: d.TermsAccepted,
		Creator:       d.Creator,
		LastUpdated:   unix(d.LastUpdated),
	}
}

func fromAPIDraft(d Draft) *entities.Draft {
	return &entities.Draft{
		ID:            d.ID,
		Title:         d.Title,
		Category:      d.Category,
		FundingGoal:   d.FundingGoal,
		Description:   d.Description,
		CoverImage:    d.CoverImage,
		SocialLinks:   entities.SocialLinks(d.SocialLinks),
		TermsAccepted: d.TermsAccepted,
		Creator:       d.Creator,
	}
}
