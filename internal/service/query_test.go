package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"compostbot/internal/domain"
	"compostbot/internal/objstore"
	"compostbot/internal/session"
)

func (f *fixture) newQuery(chat *fakeChat) *Query {
	return NewQuery(f.objects, f.embedder, chat, session.NewMemoryStore(), f.artifacts, 4)
}

func TestQuery_EmptyQuestion(t *testing.T) {
	f := newFixture(t)
	q := f.newQuery(&fakeChat{reply: "unused"})

	_, err := q.Answer(context.Background(), "", "")
	require.True(t, errors.Is(err, domain.ErrNoQuestion))

	_, err = q.Answer(context.Background(), "   ", "s1")
	require.True(t, errors.Is(err, domain.ErrNoQuestion))
}

func TestQuery_EmptyIndexStillAnswers(t *testing.T) {
	f := newFixture(t)
	chat := &fakeChat{reply: "Composting is the natural breakdown of organic matter."}
	q := f.newQuery(chat)

	answer, err := q.Answer(context.Background(), "What is composting?", "")
	require.NoError(t, err)
	require.Equal(t, chat.reply, answer)

	// The chat model received the question with no retrieved context.
	require.Len(t, chat.calls, 1)
	require.NotContains(t, chat.calls[0][0].Content, "Use the following context")
	require.Contains(t, chat.calls[0][1].Content, "What is composting?")
}

func TestQuery_RetrievedContextReachesChatModel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.documents.Put(ctx, domain.Document{
		ID: "d1", Title: "guide", Text: "Compost piles need carbon and nitrogen.", Status: domain.StatusPending,
	}))
	_, err := f.newSync().Run(ctx)
	require.NoError(t, err)

	chat := &fakeChat{reply: "They need carbon and nitrogen."}
	q := f.newQuery(chat)

	_, err = q.Answer(ctx, "What do compost piles need?", "")
	require.NoError(t, err)
	require.Len(t, chat.calls, 1)
	require.Contains(t, chat.calls[0][0].Content, "Compost piles need carbon and nitrogen.")
}

func TestQuery_SessionHistoryTriggersRewrite(t *testing.T) {
	f := newFixture(t)
	chat := &fakeChat{reply: "An answer."}
	q := f.newQuery(chat)
	ctx := context.Background()

	// First turn: no history, no rewrite.
	_, err := q.Answer(ctx, "What is composting?", "s1")
	require.NoError(t, err)
	require.Len(t, chat.calls, 1)

	// Second turn: one rewrite call plus one answer call.
	_, err = q.Answer(ctx, "Is it legal in Illinois?", "s1")
	require.NoError(t, err)
	require.Len(t, chat.calls, 3)

	rewriteCall := chat.calls[1]
	require.Contains(t, rewriteCall[0].Content, "standalone")
	// History precedes the follow-up question.
	require.Equal(t, "What is composting?", rewriteCall[1].Content)
	require.Equal(t, rewriteCall[len(rewriteCall)-1].Content, "Is it legal in Illinois?")
}

func TestQuery_NoSessionNoHistory(t *testing.T) {
	f := newFixture(t)
	chat := &fakeChat{reply: "An answer."}
	q := f.newQuery(chat)
	ctx := context.Background()

	_, err := q.Answer(ctx, "first", "")
	require.NoError(t, err)
	_, err = q.Answer(ctx, "second", "")
	require.NoError(t, err)

	// Without a session id there is never a rewrite call.
	require.Len(t, chat.calls, 2)
}

func TestQuery_CorruptedArtifactsFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.objects.Put(ctx, objstore.IndexKey("indices/", "faiss_index"), []byte("junk")))
	require.NoError(t, f.objects.Put(ctx, objstore.SidecarKey("indices/", "faiss_index"), []byte("junk")))

	q := f.newQuery(&fakeChat{reply: "unused"})
	_, err := q.Answer(ctx, "What is composting?", "")
	require.True(t, errors.Is(err, domain.ErrIndexLoad))
}

func TestQuery_HalfMissingPairFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.objects.Put(ctx, objstore.IndexKey("indices/", "faiss_index"), []byte("junk")))

	q := f.newQuery(&fakeChat{reply: "unused"})
	_, err := q.Answer(ctx, "What is composting?", "")
	require.True(t, errors.Is(err, domain.ErrIndexLoad))
}
