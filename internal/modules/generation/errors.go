package generation

import (
	"context"
	"errors"

	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/modules/generation/prompts"
	"github.com/yungbote/force-backend/internal/modules/generation/schema"
	"github.com/yungbote/force-backend/internal/platform/openai"
)

// classify turns a stage failure into an apperr. Cancellation by the caller
// wins over whatever the stage reported.
func classify(ctx context.Context, pipeline string, stage Stage, err error) error {
	op := "generation." + pipeline
	if ctx.Err() != nil && stage != StagePersisting {
		return apperr.Wrap(apperr.CodeCanceled, op, "", err)
	}

	switch stage {
	case StagePrompting:
		var ie *prompts.InputError
		if errors.As(err, &ie) {
			return apperr.Wrap(apperr.CodeInvalidArgument, op, ie.Err.Error(), err)
		}
		return apperr.Wrap(apperr.CodeInternal, op, "", err)

	case StageAwaitingLLM:
		switch openai.KindOf(err) {
		case openai.KindUnauthorized:
			return apperr.Wrap(apperr.CodeUpstreamAuth, op, "", err)
		case openai.KindMalformed:
			return apperr.Wrap(apperr.CodeInvalidAIResponse, op, "", err)
		default:
			return apperr.Wrap(apperr.CodeUpstreamUnavailable, op, "", err)
		}

	case StageParsing:
		return apperr.Wrap(apperr.CodeInvalidAIResponse, op, "the AI service returned malformed JSON, please try again", err)

	case StageValidating:
		var v *schema.Violation
		if errors.As(err, &v) {
			return apperr.Wrap(apperr.CodeInvalidAIResponse, op, "the AI response was incomplete ("+v.Error()+"), please try again", err)
		}
		return apperr.Wrap(apperr.CodeInvalidAIResponse, op, "", err)

	case StagePersisting:
		switch apperr.CodeOf(err) {
		case apperr.CodeNotFound, apperr.CodeInvalidArgument, apperr.CodeStorage:
			return err
		}
		return apperr.Wrap(apperr.CodeStorage, op, "", err)
	}
	return apperr.Wrap(apperr.CodeInternal, op, "", err)
}
