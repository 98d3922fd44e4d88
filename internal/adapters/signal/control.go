package signal

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/app/session"
)

func sendError(c frameSender, code string) {
	sendFrame(c, "error", map[string]string{"error": code})
}

func (ctl *StreamController) handlePing(c frameSender) {
	sendFrame(c, "pong", nil)
}

func (ctl *StreamController) handleSync(ctx context.Context, sess *session.Session, c frameSender) {
	snap, err := sess.SyncSnapshot(ctx)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("sync failed")
		sendError(c, err.Error())
		return
	}
	sendFrame(c, "snapshot", snap)
}

func (ctl *StreamController) handlePending(sess *session.Session, c frameSender) {
	o, err := sess.Coordinator()
	if err != nil {
		sendError(c, err.Error())
		return
	}
	sendFrame(c, "pending", o.Pending())
}

func (ctl *StreamController) handleMembers(sess *session.Session, c frameSender) {
	sendFrame(c, "members", sess.Roster.Snapshot())
}
