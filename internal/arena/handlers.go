package arena

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/arena-backend/internal/apperror"
	"github.com/rocketscienceinc/arena-backend/internal/entity"
)

// handleInit binds a player to the sending connection, announces it to
// everyone else and sends the newcomer a playerJoined snapshot for every
// player already in the arena, running scores included.
func (that *Hub) handleInit(sender *client, payload []byte) error {
	var message initMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		return fmt.Errorf("failed to unmarshal init message: %w", err)
	}

	if sender.player != nil {
		// repeated init keeps the existing identity
		return nil
	}

	player := &entity.Player{ID: sender.id, Name: message.Name}
	player.SetState(message.State)
	sender.player = player

	that.broadcast(playerJoinedMessage{
		Type:  msgPlayerJoined,
		ID:    sender.id,
		Name:  player.Name,
		State: player.State,
	}, sender)

	for _, other := range that.clients {
		if other == sender || other.player == nil {
			continue
		}
		that.send(sender, playerJoinedMessage{
			Type:   msgPlayerJoined,
			ID:     other.id,
			Name:   other.player.Name,
			State:  other.player.State,
			Kills:  other.player.Kills,
			Deaths: other.player.Deaths,
		})
	}

	that.logger.Info("player initialized", "id", sender.id, "name", player.Name)

	return nil
}

// handleUpdate overwrites the sender's state with the client-submitted
// value and fans it out to everyone else. Position and orientation are
// trusted verbatim; only the hit engine mutates health and scores.
func (that *Hub) handleUpdate(sender *client, payload []byte) error {
	if sender.player == nil {
		return apperror.ErrPlayerNotInitialized
	}

	var message updateMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		return fmt.Errorf("failed to unmarshal update message: %w", err)
	}

	sender.player.SetState(message.State)

	that.broadcast(updateMessage{
		Type:  msgUpdate,
		ID:    sender.id,
		State: sender.player.State,
	}, sender)

	return nil
}

// handleShoot resolves a hit-scan shot against every other initialized
// player, in join order. The sender is never a candidate victim.
func (that *Hub) handleShoot(sender *client, payload []byte) error {
	if sender.player == nil {
		return apperror.ErrPlayerNotInitialized
	}

	var message shootMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		return fmt.Errorf("failed to unmarshal shoot message: %w", err)
	}

	for _, victim := range that.clients {
		if victim == sender || victim.player == nil {
			continue
		}
		if !rayHits(message.Origin, message.Direction, victim.player.State.Position) {
			continue
		}

		that.applyHit(sender, victim)

		// first match wins; no closest-candidate disambiguation
		return nil
	}

	return nil
}

// applyHit applies damage and, on a kill, updates the scores, respawns the
// victim and announces both the kill and the respawn position. Partial
// damage is not separately broadcast; observers learn of it through the
// victim's next update or an eventual playerKilled.
func (that *Hub) applyHit(shooter, victim *client) {
	if !victim.player.ApplyDamage(hitDamage) {
		return
	}

	shooter.player.Kills++
	victim.player.Deaths++
	victim.player.Respawn()

	that.broadcast(playerKilledMessage{
		Type:   msgPlayerKilled,
		Killer: shooter.id,
		Victim: victim.id,
	}, nil)

	that.broadcast(updateMessage{
		Type:  msgUpdate,
		ID:    victim.id,
		State: victim.player.State,
	}, nil)

	that.logger.Info("player killed", "killer", shooter.id, "victim", victim.id)

	that.recordKill(shooter.player.Name, victim.player.Name)
}
