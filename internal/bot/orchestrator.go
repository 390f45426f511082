package bot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/avelis/millebot/pkg/mille"
)

// Orchestrator runs one bot player against a remote match server: it joins
// (or creates) a table, then bridges server events to the player and the
// player's decisions back to the server.
type Orchestrator struct {
	baseURL string
	player  mille.Player
	tableID string
	create  bool
	seats   int
	client  *Client
}

// NewOrchestrator creates an Orchestrator. With tableID empty, a fresh table
// with the given seat count is created and started once full.
func NewOrchestrator(baseURL string, player mille.Player, tableID string, seats int) *Orchestrator {
	return &Orchestrator{
		baseURL: baseURL,
		player:  player,
		tableID: tableID,
		create:  tableID == "",
		seats:   seats,
	}
}

// Run plays a full match and returns when it ends.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.client = NewClient(o.player.Name(), o.baseURL)
	if err := o.client.Login(); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if o.create {
		id, err := o.client.CreateTable("millebot", o.seats)
		if err != nil {
			return fmt.Errorf("create table: %w", err)
		}
		o.tableID = id
		log.Info().Str("tableId", id).Msg("Table created")
	} else {
		if err := o.client.JoinTable(o.tableID); err != nil {
			return fmt.Errorf("join table: %w", err)
		}
	}

	if err := o.client.ConnectWS(); err != nil {
		return fmt.Errorf("ws connect: %w", err)
	}
	defer o.client.CloseWS()
	if err := o.client.SubscribeTable(o.tableID); err != nil {
		return fmt.Errorf("ws subscribe: %w", err)
	}

	return o.eventLoop(ctx)
}

func (o *Orchestrator) eventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, leaving table")
			return ctx.Err()
		case event, ok := <-o.client.Events():
			if !ok {
				return fmt.Errorf("server closed connection")
			}
			done, err := o.handle(event)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func (o *Orchestrator) handle(event WSEvent) (done bool, err error) {
	switch event.Type {
	case EventSeated:
		var data struct {
			Player int `json:"player"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return false, fmt.Errorf("decode seated event: %w", err)
		}
		o.player.Seat(data.Player)

	case EventCardDrawn:
		var data struct {
			Card mille.Card `json:"card"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return false, fmt.Errorf("decode card_drawn event: %w", err)
		}
		o.player.CardDrawn(data.Card)

	case EventMovePlayed:
		var data struct {
			Player int        `json:"player"`
			Move   mille.Move `json:"move"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return false, fmt.Errorf("decode move_played event: %w", err)
		}
		o.player.PlayerPlayed(data.Player, data.Move)

	case EventTurn:
		var gs mille.GameState
		if err := json.Unmarshal(event.Data, &gs); err != nil {
			return false, fmt.Errorf("decode turn event: %w", err)
		}
		move := o.player.MakeMove(&gs)
		if err := o.client.SubmitMove(o.tableID, move); err != nil {
			return false, fmt.Errorf("submit move: %w", err)
		}

	case EventCoupFourre:
		var data struct {
			Attack mille.Card      `json:"attack"`
			State  mille.GameState `json:"state"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return false, fmt.Errorf("decode coup_fourre event: %w", err)
		}
		accept := o.player.PlayCoupFourre(data.Attack, &data.State)
		if err := o.client.RespondCoupFourre(o.tableID, accept); err != nil {
			return false, fmt.Errorf("respond coup fourré: %w", err)
		}

	case EventExtension:
		var data struct {
			State mille.GameState `json:"state"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return false, fmt.Errorf("decode extension event: %w", err)
		}
		accept := o.player.GoForExtension(&data.State)
		if err := o.client.RespondExtension(o.tableID, accept); err != nil {
			return false, fmt.Errorf("respond extension: %w", err)
		}

	case EventHandEnded:
		var summary mille.ScoreSummary
		if err := json.Unmarshal(event.Data, &summary); err != nil {
			return false, fmt.Errorf("decode hand_ended event: %w", err)
		}
		o.player.HandEnded(summary)

	case EventMatchEnded:
		var data struct {
			WinnerTeam int `json:"winner_team"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return false, fmt.Errorf("decode match_ended event: %w", err)
		}
		log.Info().Int("winnerTeam", data.WinnerTeam).Msg("Match ended")
		return true, nil
	}
	return false, nil
}
