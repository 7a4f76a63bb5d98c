package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cyber-doctor/internal/chat"
	"cyber-doctor/internal/model"
	"cyber-doctor/internal/tool"
)

// Ask classifies the message as typed (attachment contents are appended
// afterwards), answers it, and renders the result for display.
func (uc *implUseCase) Ask(ctx context.Context, input chat.AskInput) (chat.Reply, error) {
	if input.SessionID == "" {
		return chat.Reply{}, chat.ErrEmptySession
	}

	turns, err := uc.history.List(ctx, input.SessionID, uc.maxTurns)
	if err != nil {
		uc.l.Warnf(ctx, "chat.Ask: load history: %v", err)
		turns = nil
	}

	files := uc.readAttachments(ctx, input.Attachments)
	message := input.Message + strings.Repeat(promptUnsupportedFile, files.unsupported)

	intent, err := uc.classifier.Classify(ctx, message, len(input.Images) > 0)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("chat.Ask: classify: %w", err)
	}

	message += files.text()
	if message == "" {
		message = model.EmptyQuestion
	}

	res, err := uc.assembler.GetAnswer(ctx, message, turns, intent, input.Images)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("chat.Ask: %w", err)
	}

	reply := uc.render(ctx, res)
	if reply.Stream != nil {
		reply.Stream = newRecordingStream(reply.Stream, func(body string) {
			uc.remember(context.WithoutCancel(ctx), input.SessionID, message, reply.Prefix+body)
		})
		return reply, nil
	}

	uc.remember(ctx, input.SessionID, message, reply.Text)
	return reply, nil
}

func (uc *implUseCase) render(ctx context.Context, res tool.Result) chat.Reply {
	reply := chat.Reply{Intent: res.Intent, Links: res.Links}

	switch p := res.Payload.(type) {
	case tool.StreamPayload:
		reply.Stream = p.Stream
		if res.Intent == model.IntentInternetSearch {
			reply.Prefix = searchPrefix(res.Success, res.Links)
		}
	case tool.TextPayload:
		reply.Text = p.Text
		reply.ImageURLs = p.ImageURLs
	case tool.ImagePayload:
		reply.Media = &chat.Media{Kind: chat.MediaImage, Location: p.URL}
		reply.Text = fmt.Sprintf("**生成的图片:**\n![Generated Image](%s)\n%s", p.URL, uc.describeGenerated(ctx, p.URL))
	case tool.MediaPayload:
		reply.Media = &chat.Media{Kind: string(p.Kind), Location: p.Location}
		reply.Text = p.Location
	case nil:
		reply.Text = apology(res.Intent)
	}
	return reply
}

// describeGenerated captions a generated image. Failure leaves the caption empty.
func (uc *implUseCase) describeGenerated(ctx context.Context, url string) string {
	res, err := uc.assembler.GetAnswer(ctx, describeGenerated, nil, model.IntentImageDescribe, []string{url})
	if err != nil {
		uc.l.Warnf(ctx, "chat.describeGenerated: %v", err)
		return ""
	}
	if p, ok := res.Payload.(tool.TextPayload); ok {
		return p.Text
	}
	return ""
}

func (uc *implUseCase) remember(ctx context.Context, sessionID, question, answer string) {
	if err := uc.history.Append(ctx, sessionID, model.Turn{User: question, Assistant: answer}); err != nil {
		uc.l.Warnf(ctx, "chat.remember: %v", err)
	}
}

// searchPrefix is the disclaimer for a failed search, otherwise the
// reference list as markdown links sorted by URL.
func searchPrefix(success bool, links map[string]string) string {
	if !success {
		return searchFailedPrefix
	}
	urls := make([]string, 0, len(links))
	for u := range links {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	var b strings.Builder
	b.WriteString(searchLinksPrefix)
	for i, u := range urls {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%s](%s)", links[u], u)
	}
	b.WriteByte('\n')
	return b.String()
}

func apology(intent model.Intent) string {
	switch intent {
	case model.IntentVideo:
		return apologyVideo
	case model.IntentPPT:
		return apologyPPT
	case model.IntentDocx:
		return apologyDocx
	case model.IntentAudio:
		return apologyAudio
	default:
		return apologyImage
	}
}

func (uc *implUseCase) History(ctx context.Context, sessionID string) ([]model.Turn, error) {
	if sessionID == "" {
		return nil, chat.ErrEmptySession
	}
	return uc.history.List(ctx, sessionID, 0)
}

func (uc *implUseCase) Reset(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return chat.ErrEmptySession
	}
	return uc.history.Clear(ctx, sessionID)
}
