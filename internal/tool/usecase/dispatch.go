package usecase

import (
	"context"
	"errors"
	"fmt"

	"cyber-doctor/internal/content"
	"cyber-doctor/internal/media"
	"cyber-doctor/internal/model"
	"cyber-doctor/internal/search"
	"cyber-doctor/internal/tool"
)

func (d *implDispatcher) Dispatch(ctx context.Context, req tool.Request) (tool.Result, error) {
	var (
		res tool.Result
		err error
	)

	switch req.Intent {
	case model.IntentPlainText, model.IntentGreeting:
		res.Payload, err = d.chat(ctx, req.Question, req)
	case model.IntentRAG:
		res.Payload, err = d.rag(ctx, req)
	case model.IntentKnowledgeGraph:
		res.Payload, err = d.knowledgeGraph(ctx, req)
	case model.IntentImageGeneration:
		res.Payload, err = d.generateImage(ctx, req)
	case model.IntentImageDescribe:
		res.Payload, err = d.describeImage(ctx, req)
	case model.IntentAudio:
		res.Payload = d.audio(ctx, req)
	case model.IntentVideo:
		res.Payload = d.video(ctx, req)
	case model.IntentPPT:
		res.Payload, err = d.document(ctx, req, content.KindPPT, tool.MediaPPT)
	case model.IntentDocx:
		res.Payload, err = d.document(ctx, req, content.KindDocx, tool.MediaDocx)
	case model.IntentInternetSearch:
		res, err = d.internetSearch(ctx, req)
	default:
		panic(fmt.Sprintf("tool: no handler for intent %q", req.Intent))
	}
	if err != nil {
		return tool.Result{}, err
	}

	res.Intent = req.Intent
	return res, nil
}

func (d *implDispatcher) chat(ctx context.Context, prompt string, req tool.Request) (tool.Payload, error) {
	stream, err := d.LLM.ChatWithAIStream(ctx, prompt, req.History)
	if err != nil {
		return nil, err
	}
	return tool.StreamPayload{Stream: stream}, nil
}

// rag answers from the knowledge base. A failed lookup answers with an empty
// context rather than failing the turn.
func (d *implDispatcher) rag(ctx context.Context, req tool.Request) (tool.Payload, error) {
	docs, err := d.Knowledge.Retrieve(ctx, req.Question, d.RAGTopK)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		d.l.Warnf(ctx, "tool.rag: retrieve: %v", err)
	}
	return d.chat(ctx, fmt.Sprintf(promptRAG, search.JoinDocuments(docs), req.Question), req)
}

func (d *implDispatcher) knowledgeGraph(ctx context.Context, req tool.Request) (tool.Payload, error) {
	prompt := req.Question
	facts, found, err := d.Graph.Lookup(ctx, req.Question)
	if err != nil {
		return nil, err
	}
	if found {
		d.l.Debugf(ctx, "tool.knowledgeGraph: %s", facts)
		prompt = fmt.Sprintf(promptKnowledgeGraph, req.Question, facts)
	}
	return d.chat(ctx, prompt, req)
}

func (d *implDispatcher) generateImage(ctx context.Context, req tool.Request) (tool.Payload, error) {
	url, err := d.Media.GenerateImage(ctx, req.Question)
	if err != nil {
		return nil, err
	}
	return tool.ImagePayload{URL: url}, nil
}

func (d *implDispatcher) describeImage(ctx context.Context, req tool.Request) (tool.Payload, error) {
	out, err := d.Media.DescribeImage(ctx, media.DescribeInput{Question: req.Question, Images: req.Images})
	if err != nil {
		return nil, err
	}
	return tool.TextPayload{Text: out.Text, ImageURLs: out.ImageURLs}, nil
}

// audio swallows failures: the user gets an apology, the log keeps the cause.
func (d *implDispatcher) audio(ctx context.Context, req tool.Request) tool.Payload {
	out, err := d.Media.Speak(ctx, media.SpeakInput{Question: req.Question, History: req.History})
	if err != nil {
		d.l.Warnf(ctx, "tool.audio: %v", err)
		return nil
	}
	return tool.MediaPayload{Kind: tool.MediaAudio, Location: out.Path}
}

func (d *implDispatcher) video(ctx context.Context, req tool.Request) tool.Payload {
	url, err := d.Media.GenerateVideo(ctx, req.Question)
	if err != nil {
		d.l.Warnf(ctx, "tool.video: %v", err)
		return nil
	}
	return tool.MediaPayload{Kind: tool.MediaVideo, Location: url}
}

// document turns outline and render failures into a nil payload. LLM errors
// propagate.
func (d *implDispatcher) document(ctx context.Context, req tool.Request, kind content.Kind, mk tool.MediaKind) (tool.Payload, error) {
	out, err := d.Content.Generate(ctx, content.GenerateInput{Kind: kind, Question: req.Question, History: req.History})
	switch {
	case errors.Is(err, content.ErrMalformedOutline), errors.Is(err, content.ErrInvalidOutline), errors.Is(err, content.ErrRenderFailed):
		d.l.Warnf(ctx, "tool.document: %v", err)
		return nil, nil
	case err != nil:
		return nil, err
	}
	return tool.MediaPayload{Kind: mk, Location: out.Path}, nil
}

func (d *implDispatcher) internetSearch(ctx context.Context, req tool.Request) (tool.Result, error) {
	out, err := d.Search.SearchAndAnswer(ctx, req.Question, req.History)
	if err != nil {
		return tool.Result{}, err
	}
	return tool.Result{
		Payload: tool.StreamPayload{Stream: out.Stream},
		Links:   out.Links,
		Success: out.HadResults,
	}, nil
}
