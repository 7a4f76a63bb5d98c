package llmprovider

// Stream is a lazily consumed sequence of completion deltas. It is not restartable.
//
//	for s.Next() {
//		fmt.Print(s.Current())
//	}
//	if err := s.Err(); err != nil { ... }
type Stream interface {
	Next() bool
	Current() string
	Err() error
	Close() error
}

// NewStaticStream returns a Stream that yields the given chunks in order.
func NewStaticStream(chunks ...string) Stream {
	return &staticStream{chunks: chunks, pos: -1}
}

type staticStream struct {
	chunks []string
	pos    int
}

func (s *staticStream) Next() bool {
	if s.pos+1 >= len(s.chunks) {
		return false
	}
	s.pos++
	return true
}

func (s *staticStream) Current() string {
	if s.pos < 0 || s.pos >= len(s.chunks) {
		return ""
	}
	return s.chunks[s.pos]
}

func (s *staticStream) Err() error   { return nil }
func (s *staticStream) Close() error { return nil }

// Drain reads the remaining deltas of s into one string and closes it.
func Drain(s Stream) (string, error) {
	defer s.Close()
	var out []byte
	for s.Next() {
		out = append(out, s.Current()...)
	}
	return string(out), s.Err()
}

// prefetch pulls the first delta so that transport failures surface as an error
// while the caller can still fall back to another provider.
func prefetch(s Stream) (Stream, error) {
	if s.Next() {
		return &peekedStream{inner: s, first: s.Current(), pending: true}, nil
	}
	if err := s.Err(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

type peekedStream struct {
	inner   Stream
	first   string
	pending bool
	cur     string
}

func (p *peekedStream) Next() bool {
	if p.pending {
		p.pending = false
		p.cur = p.first
		return true
	}
	if p.inner.Next() {
		p.cur = p.inner.Current()
		return true
	}
	p.cur = ""
	return false
}

func (p *peekedStream) Current() string { return p.cur }
func (p *peekedStream) Err() error      { return p.inner.Err() }
func (p *peekedStream) Close() error    { return p.inner.Close() }
