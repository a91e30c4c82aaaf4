// verdictctl is a small operator console for a running group-verdict server.
// It drives the admin endpoints (resolve, advance, settle) and renders the
// public game view, so a game can be run from a terminal next to the room.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/danielhkuo/group-verdict/models"
)

const usage = `usage: verdictctl [flags] <command>

commands:
  status    show the public view of a game (requires -slug)
  outcome   show the terminal outcome of a game (requires -game)
  resolve   resolve every group in the current round (requires -game and -key)
  advance   advance to the next round or finish the game (requires -game and -key)
  settle    mark a completed game settled (requires -game and -key)

flags:
`

func main() {
	fs := flag.NewFlagSet("verdictctl", flag.ExitOnError)
	server := fs.String("server", "http://localhost:3419", "base URL of the group-verdict server")
	gameID := fs.String("game", "", "game ID for admin commands")
	slug := fs.String("slug", "", "share slug for the status command")
	adminKey := fs.String("key", "", "admin key issued at game creation")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	client := &apiClient{
		base:     *server,
		adminKey: *adminKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}

	var err error
	switch fs.Arg(0) {
	case "status":
		err = runStatus(client, *slug)
	case "outcome":
		err = runOutcome(client, *gameID)
	case "resolve":
		err = runResolve(client, *gameID)
	case "advance":
		err = runAdvance(client, *gameID)
	case "settle":
		err = runSettle(client, *gameID)
	default:
		fs.Usage()
		os.Exit(1)
	}
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func runStatus(c *apiClient, slug string) error {
	if slug == "" {
		return fmt.Errorf("status requires -slug")
	}

	var state models.GameStateResponse
	if err := c.get("/games/"+slug, &state); err != nil {
		return err
	}

	pterm.DefaultSection.Println(state.Game.Title)
	pterm.Info.Printfln("Variant: %s  Status: %s  Group size: %d",
		state.Game.Variant, pterm.LightCyan(state.Game.Status), state.Game.GroupSize)

	if state.Round == nil {
		pterm.Info.Println("No round in progress yet")
		return nil
	}

	pterm.Info.Printfln("Round %d (%s)", state.Round.Number, state.Round.Status)
	return renderGroupViews(state.Groups)
}

func runOutcome(c *apiClient, gameID string) error {
	if gameID == "" {
		return fmt.Errorf("outcome requires -game")
	}

	var out models.OutcomeResponse
	if err := c.get("/games/"+gameID+"/outcome", &out); err != nil {
		return err
	}

	pterm.Info.Printfln("Game %s is %s", out.GameID, pterm.LightCyan(out.Status))
	switch {
	case out.WinnerID != nil:
		pterm.Success.Printfln("Role holder %d won the game", *out.WinnerID)
	case len(out.Winners) > 0:
		pterm.Success.Printfln("Winners: %s", formatParticipants(out.Winners))
	default:
		pterm.Info.Println("No winners recorded yet")
	}
	return nil
}

func runResolve(c *apiClient, gameID string) error {
	if gameID == "" {
		return fmt.Errorf("resolve requires -game")
	}

	spinner, _ := pterm.DefaultSpinner.Start("Resolving the current round ...")
	var out models.ResolveRoundResponse
	if err := c.post("/games/"+gameID+"/resolve", nil, &out); err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()

	pterm.Info.Printfln("Resolved the %s", out.RoundName)
	data := pterm.TableData{{"Group", "Status", "Winner"}}
	for _, g := range out.Groups {
		winner := "-"
		if g.WinnerID != nil {
			winner = strconv.FormatInt(*g.WinnerID, 10)
		}
		data = append(data, []string{strconv.Itoa(g.Number), g.Status, winner})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	if out.GameEnded {
		pterm.Warning.Printfln("Game over: %s", out.GameStatus)
	}
	return nil
}

func runAdvance(c *apiClient, gameID string) error {
	if gameID == "" {
		return fmt.Errorf("advance requires -game")
	}

	spinner, _ := pterm.DefaultSpinner.Start("Advancing to the next round ...")
	var out models.AdvanceRoundResponse
	if err := c.post("/games/"+gameID+"/advance", nil, &out); err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()

	if out.Finished {
		if len(out.Winners) > 0 {
			pterm.Success.Printfln("Game finished. Winners: %s", formatParticipants(out.Winners))
		} else {
			pterm.Warning.Println("Game finished with no winners")
		}
		return nil
	}

	pterm.Info.Printfln("Started the %s", out.RoundName)
	return renderGroupViews(out.Groups)
}

func runSettle(c *apiClient, gameID string) error {
	if gameID == "" {
		return fmt.Errorf("settle requires -game")
	}

	confirm, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultText("Settle this game? Settlement is final").
		WithDefaultValue(false).Show()
	if !confirm {
		pterm.Info.Println("Settlement cancelled")
		return nil
	}

	var out models.OutcomeResponse
	if err := c.post("/games/"+gameID+"/settle", nil, &out); err != nil {
		return err
	}

	pterm.Success.Printfln("Game %s settled", out.GameID)
	if len(out.Winners) > 0 {
		pterm.Success.Printfln("Winners: %s", formatParticipants(out.Winners))
	}
	return nil
}

func renderGroupViews(groups []models.GroupView) error {
	data := pterm.TableData{{"Group", "Status", "Members", "Winner"}}
	for _, g := range groups {
		winner := "-"
		if g.WinnerID != nil {
			winner = strconv.FormatInt(*g.WinnerID, 10)
		}
		data = append(data, []string{
			strconv.Itoa(g.Number), g.Status, formatParticipants(g.Members), winner,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatParticipants(ids []int64) string {
	var buf bytes.Buffer
	for i, id := range ids {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(strconv.FormatInt(id, 10))
	}
	return buf.String()
}

// apiClient wraps the HTTP calls so commands stay focused on presentation.
type apiClient struct {
	base     string
	adminKey string
	http     *http.Client
}

func (c *apiClient) get(path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *apiClient) post(path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(http.MethodPost, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminKey != "" {
		req.Header.Set("X-Admin-Key", c.adminKey)
	}
	return c.do(req, out)
}

func (c *apiClient) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr models.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
