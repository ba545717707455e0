package lexer

import (
	"github.com/sirupsen/logrus"

	"github.com/ava12/hilite"
	"github.com/ava12/hilite/grammar"
	"github.com/ava12/hilite/keywords"
	"github.com/ava12/hilite/pattern"
	"github.com/ava12/hilite/source"
)

type candidateKind int

const (
	beginCandidate candidateKind = iota
	endCandidate
	illegalCandidate
)

type candidate struct {
	kind  candidateKind
	re    *pattern.Pattern
	child *mode
	frame int
	owner *frame
}

type frame struct {
	mode     *mode
	end      *pattern.Pattern
	captured string
	owned    bool
	keywords *keywords.Table
	category string
	depth    int
	region   int
}

func (f *frame) categorized() bool {
	return f.mode.category != "" && !f.mode.is(skip)
}

type cacheKey struct {
	re     *pattern.Pattern
	filter modeFlags
	owner  *frame
}

type cachedMatch struct {
	from  int
	match pattern.Match
	found bool
}

type guardKey struct {
	depth, top int
	kind       candidateKind
	id         int
}

type scanEnv struct {
	lenient  bool
	nestBase int
	maxDepth int
	stack    []*frame

	// outer is the source of the outermost scan, outerBase is the rune index of delegated text in it.
	outer     *source.Source
	outerBase int
}

type scanner struct {
	l             *Lexer
	src           *source.Source
	text          []rune
	env           scanEnv
	stack         []*frame
	cands         []candidate
	cursor        int
	emitted       int
	lastBegin     int
	guardPos      int
	tokens        []Token
	regions       []Region
	relevance     int
	hits          keywords.Hits
	cache         map[cacheKey]cachedMatch
	seen          map[guardKey]bool
	literalEnds   map[string]*pattern.Pattern
	continuations map[string][]*frame
	done          bool
	terminated    bool
}

// Scan scans text.
// Returns nil and hilite.Error if illegal pattern matches or mode nesting is too deep.
func (l *Lexer) Scan(text string) (*Result, error) {
	return l.ScanSource(source.New("", text), false)
}

// ScanLenient scans text ignoring illegal patterns.
func (l *Lexer) ScanLenient(text string) (*Result, error) {
	return l.ScanSource(source.New("", text), true)
}

// ScanSource scans source, source name is used in error messages.
// Illegal patterns are ignored if lenient is set.
func (l *Lexer) ScanSource(src *source.Source, lenient bool) (*Result, error) {
	res, _, e := l.scan(src, scanEnv{lenient: lenient, maxDepth: l.maxDepth})
	return res, e
}

func (l *Lexer) scan(src *source.Source, env scanEnv) (*Result, []*frame, error) {
	if src.Len() == 0 {
		return &Result{Grammar: l.name}, env.stack, nil
	}

	s := newScanner(l, src, env)
	if e := s.run(); e != nil {
		return nil, nil, e
	}
	return s.result(), s.finalStack(), nil
}

func newScanner(l *Lexer, src *source.Source, env scanEnv) *scanner {
	s := &scanner{
		l:             l,
		src:           src,
		text:          src.Runes(),
		env:           env,
		lastBegin:     -1,
		guardPos:      -1,
		cache:         make(map[cacheKey]cachedMatch),
		seen:          make(map[guardKey]bool),
		literalEnds:   make(map[string]*pattern.Pattern),
		continuations: make(map[string][]*frame),
	}

	if len(env.stack) == 0 {
		root := l.modes[rootIndex]
		s.stack = []*frame{{mode: root, keywords: root.keywords, region: -1}}
		return s
	}

	s.stack = make([]*frame, len(env.stack))
	for i, f := range env.stack {
		copied := *f
		copied.region = -1
		if copied.categorized() {
			copied.region = s.openRegion(copied.category, 0, copied.depth)
		}
		s.stack[i] = &copied
	}
	return s
}

func (s *scanner) top() *frame {
	return s.stack[len(s.stack)-1]
}

// context returns the innermost frame that is not skipped, its text is emitted in this frame context.
func (s *scanner) context() *frame {
	for i := len(s.stack) - 1; i > 0; i-- {
		if !s.stack[i].mode.is(skip) {
			return s.stack[i]
		}
	}
	return s.stack[0]
}

func (s *scanner) run() error {
	for !s.done {
		c, m, found, e := s.next()
		if e != nil {
			return e
		}
		if !found {
			break
		}
		if s.stalled(c, m) {
			continue
		}

		switch c.kind {
		case illegalCandidate:
			return s.illegalError(m)
		case beginCandidate:
			e = s.begin(c.child, m)
		case endCandidate:
			e = s.end(c.frame, m)
		}
		if e != nil {
			return e
		}
	}

	if e := s.flush(len(s.text)); e != nil {
		return e
	}
	end := s.src.Len()
	for _, f := range s.stack {
		if f.region >= 0 {
			s.regions[f.region].End = end
		}
	}
	return nil
}

func (s *scanner) result() *Result {
	relevance := s.relevance
	if relevance < 0 {
		relevance = 0
	}
	return &Result{
		Grammar:   s.l.name,
		Text:      s.src.Text(),
		Tokens:    s.tokens,
		Regions:   s.regions,
		Relevance: relevance,
	}
}

// finalStack returns the stack to continue with when the next block of the same delegated grammar is scanned.
func (s *scanner) finalStack() []*frame {
	if s.terminated || len(s.stack) == 1 {
		return nil
	}
	return s.stack
}

func (s *scanner) collectCandidates() {
	top := s.top()
	s.cands = s.cands[:0]

	addBegins := func() {
		for _, ci := range top.mode.children {
			child := s.l.modes[ci]
			s.cands = append(s.cands, candidate{kind: beginCandidate, re: child.begin, child: child})
		}
	}
	addEnds := func() {
		for i := len(s.stack) - 1; i > 0; i-- {
			f := s.stack[i]
			if f.end != nil {
				c := candidate{kind: endCandidate, re: f.end, frame: i}
				if f.owned {
					c.owner = f
				}
				s.cands = append(s.cands, c)
			}
			if !f.mode.is(endsWithParent) {
				break
			}
		}
	}

	if s.l.tieBreak == grammar.EndFirst {
		addEnds()
		addBegins()
	} else {
		addBegins()
		addEnds()
	}

	if s.env.lenient {
		return
	}
	if top.mode.illegal != nil {
		s.cands = append(s.cands, candidate{kind: illegalCandidate, re: top.mode.illegal})
	}
	if s.l.illegal != nil && (!s.l.illegalAtRootOnly || len(s.stack) == 1) {
		s.cands = append(s.cands, candidate{kind: illegalCandidate, re: s.l.illegal})
	}
}

// next returns the earliest matching candidate, candidates listed first win ties.
func (s *scanner) next() (candidate, pattern.Match, bool, error) {
	s.collectCandidates()

	var (
		best      candidate
		bestMatch pattern.Match
		found     bool
	)
	for _, c := range s.cands {
		m, ok, e := s.find(c)
		if e != nil {
			return best, bestMatch, false, e
		}
		if ok && (!found || m.Start < bestMatch.Start) {
			best, bestMatch, found = c, m, true
			if m.Start == s.cursor {
				break
			}
		}
	}
	return best, bestMatch, found, nil
}

func (s *scanner) find(c candidate) (pattern.Match, bool, error) {
	key := cacheKey{re: c.re, owner: c.owner}
	if c.kind == beginCandidate {
		key.filter = c.child.flags & (afterDotFilter | startOfText)
	}

	cached, has := s.cache[key]
	if has && cached.from <= s.cursor && (!cached.found || cached.match.Start >= s.cursor) {
		return cached.match, cached.found, nil
	}

	from := s.cursor
	for {
		m, found, e := c.re.FindAt(s.text, from)
		if e != nil {
			return m, false, e
		}
		if found && !s.accepts(key, m) {
			from = m.Start + 1
			continue
		}

		s.cache[key] = cachedMatch{s.cursor, m, found}
		return m, found, nil
	}
}

func (s *scanner) accepts(key cacheKey, m pattern.Match) bool {
	if key.filter&startOfText != 0 && m.Start != 0 {
		return false
	}
	if key.filter&afterDotFilter != 0 && m.Start > 0 && s.text[m.Start-1] == '.' {
		return false
	}
	if key.owner != nil && m.Group != key.owner.captured {
		return false
	}
	return true
}

// stalled detects a begin/end sequence that returns to a seen state without consuming text,
// or an empty end match right after a begin at the same position.
// In both cases one rune is added to pending text.
func (s *scanner) stalled(c candidate, m pattern.Match) bool {
	if s.cursor != s.guardPos {
		clear(s.seen)
		s.guardPos = s.cursor
	}

	key := guardKey{len(s.stack), s.top().mode.index, c.kind, 0}
	switch c.kind {
	case beginCandidate:
		key.id = c.child.index
	case endCandidate:
		key.id = c.frame
	}

	emptyEnd := c.kind == endCandidate && m.Len() == 0 && s.lastBegin == m.Start
	if !emptyEnd && !s.seen[key] {
		s.seen[key] = true
		return false
	}

	s.lastBegin = -1
	if m.Start >= len(s.text) {
		s.done = true
	} else {
		s.cursor = m.Start + 1
	}
	return true
}

// errorPos returns position of rune index in the outermost source.
func (s *scanner) errorPos(at int) source.Pos {
	if s.env.outer == nil {
		return source.NewPos(s.src, s.src.Offset(at))
	}
	return source.NewPos(s.env.outer, s.env.outer.Offset(s.env.outerBase+at))
}

func (s *scanner) illegalError(m pattern.Match) error {
	pos := s.errorPos(m.Start)
	return hilite.FormatErrorPos(pos, ErrIllegalConstruct, "illegal construct %q for %s grammar",
		string(s.text[m.Start:m.End]), s.l.name)
}

func (s *scanner) recursionError(at int) error {
	pos := s.errorPos(at)
	return hilite.FormatErrorPos(pos, ErrRecursionLimit, "mode nesting exceeds %d", s.env.maxDepth)
}

func (s *scanner) openRegion(category string, at, depth int) int {
	s.regions = append(s.regions, Region{
		Category: category,
		Start:    s.src.Offset(at),
		End:      -1,
		Depth:    depth,
		Grammar:  s.l.name,
	})
	return len(s.regions) - 1
}

// enter pushes a new frame, regionStart is rune index where its region starts.
func (s *scanner) enter(m *mode, match pattern.Match, regionStart int) (*frame, error) {
	if s.env.nestBase+len(s.stack) >= s.env.maxDepth {
		return nil, s.recursionError(match.Start)
	}

	parent := s.top()
	f := &frame{mode: m, end: m.end, region: -1}
	switch m.kwPolicy {
	case ownKeywords:
		f.keywords = m.keywords
	case inheritKeywords:
		f.keywords = parent.keywords
	}

	if f.categorized() {
		f.category = m.category
		f.depth = parent.depth + 1
		f.region = s.openRegion(m.category, regionStart, f.depth)
	} else {
		f.category = parent.category
		f.depth = parent.depth
	}

	if m.is(endSameAsBegin) {
		f.captured = match.Group
		if m.end == nil {
			f.end = s.literalEnd(match.Group)
		} else {
			f.owned = true
		}
	}

	if !m.is(skip) && len(m.delegate) == 0 {
		s.relevance += m.relevance
	}
	s.stack = append(s.stack, f)
	return f, nil
}

func (s *scanner) literalEnd(text string) *pattern.Pattern {
	if p, has := s.literalEnds[text]; has {
		return p
	}
	p := pattern.MustCompile(pattern.Escape(text), s.l.popts)
	s.literalEnds[text] = p
	return p
}

func (s *scanner) begin(child *mode, m pattern.Match) error {
	var (
		f *frame
		e error
	)
	s.lastBegin = m.Start

	switch {
	case child.is(skip):
		_, e = s.enter(child, m, m.Start)
		s.cursor = m.End
		if child.is(returnBegin) {
			s.cursor = m.Start
		}

	case child.is(returnBegin):
		e = s.flush(m.Start)
		if e == nil {
			_, e = s.enter(child, m, m.Start)
		}
		s.cursor = m.Start

	case child.is(excludeBegin):
		e = s.flush(m.End)
		if e == nil {
			_, e = s.enter(child, m, m.End)
		}
		s.cursor = m.End

	default:
		e = s.flush(m.Start)
		if e == nil {
			f, e = s.enter(child, m, m.Start)
		}
		if e == nil {
			e = s.emitLexeme(f, m.Start, m.End, Begin)
		}
		s.cursor = m.End
	}
	return e
}

// end closes the frame at index whose end pattern has matched along with all frames above it.
// Flags of that frame decide what happens to the end match.
func (s *scanner) end(index int, m pattern.Match) error {
	owner := s.stack[index]
	endIndex := index
	for endIndex > 0 && s.stack[endIndex].mode.is(endsParent) {
		endIndex--
	}
	ended := s.stack[endIndex].mode

	consumed := m.End
	regionEnd := m.End
	switch {
	case owner.mode.is(returnEnd):
		consumed = m.Start
		regionEnd = m.Start
	case owner.mode.is(excludeEnd):
		regionEnd = m.Start
	}

	if owner != s.top() || !owner.mode.is(skip) {
		if e := s.flush(m.Start); e != nil {
			return e
		}
	}
	s.pop(index+1, m.Start)
	if !owner.mode.is(skip | returnEnd | excludeEnd) {
		if e := s.emitLexeme(owner, m.Start, m.End, End); e != nil {
			return e
		}
	}
	s.pop(endIndex, regionEnd)
	s.lastBegin = -1

	if !owner.mode.is(skip) {
		if e := s.flush(consumed); e != nil {
			return e
		}
	}
	s.cursor = consumed

	if endIndex == rootIndex {
		return s.terminate()
	}
	if ended.starts >= 0 {
		_, e := s.enter(s.l.modes[ended.starts], pattern.Match{Start: s.cursor, End: s.cursor}, s.cursor)
		return e
	}
	return nil
}

// pop removes frames down to index (the root frame is never removed), regionEnd is rune index.
func (s *scanner) pop(index, regionEnd int) {
	if index < 1 {
		index = 1
	}
	end := s.src.Offset(regionEnd)
	for len(s.stack) > index {
		f := s.top()
		if f.region >= 0 {
			s.regions[f.region].End = end
		}
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// terminate emits the rest of the text as plain root text.
func (s *scanner) terminate() error {
	if e := s.flush(s.cursor); e != nil {
		return e
	}
	root := s.stack[0]
	s.emit(Text, root.category, s.emitted, len(s.text), root.depth)
	s.emitted = len(s.text)
	s.cursor = len(s.text)
	s.done = true
	s.terminated = true
	return nil
}

// flush emits pending text up to rune index to in current context.
func (s *scanner) flush(to int) error {
	if to <= s.emitted {
		return nil
	}

	f := s.context()
	from := s.emitted
	s.emitted = to
	if len(f.mode.delegate) > 0 {
		return s.delegate(f, from, to)
	}
	return s.emitWords(f, from, to, Text)
}

func (s *scanner) emitLexeme(f *frame, from, to int, kind TokenKind) error {
	if f.region < 0 {
		kind = Text
	}
	s.emitted = to
	return s.emitWords(f, from, to, kind)
}

func (s *scanner) emitWords(f *frame, from, to int, kind TokenKind) error {
	hits, e := f.keywords.Find(s.text[from:to])
	if e != nil {
		return e
	}

	pos := from
	for _, h := range hits {
		s.relevance += s.hits.Score(h.Word, h.Entry)
		if !h.Highlighted() {
			continue
		}

		s.emit(kind, f.category, pos, from+h.Start, f.depth)
		s.emit(Keyword, h.Category, from+h.Start, from+h.End, f.depth)
		pos = from + h.End
	}
	s.emit(kind, f.category, pos, to, f.depth)
	return nil
}

func (s *scanner) emit(kind TokenKind, category string, from, to, depth int) {
	if to <= from {
		return
	}
	s.tokens = append(s.tokens, Token{
		Kind:     kind,
		Category: category,
		Start:    s.src.Offset(from),
		End:      s.src.Offset(to),
		Depth:    depth,
		Grammar:  s.l.name,
	})
}

func (s *scanner) resolve(name string) *Lexer {
	entry := log.WithField("grammar", name)
	if s.l.resolver == nil {
		entry.Debug("No resolver for delegated grammar, using plain text")
		return nil
	}

	l, e := s.l.resolver.Resolve(name)
	if e != nil || l == nil {
		entry.WithError(e).Debug("Delegated grammar is not available, using plain text")
		return nil
	}
	return l
}

// delegate scans text between rune indexes with delegated grammar and splices the results.
func (s *scanner) delegate(f *frame, from, to int) error {
	src := source.New(s.src.Name(), string(s.text[from:to]))
	env := scanEnv{
		nestBase:  s.env.nestBase + len(s.stack),
		maxDepth:  s.env.maxDepth,
		outer:     s.env.outer,
		outerBase: s.env.outerBase + from,
	}
	if env.outer == nil {
		env.outer = s.src
	}

	var res *Result
	if len(f.mode.delegate) == 1 {
		name := f.mode.delegate[0]
		sub := s.resolve(name)
		if sub != nil {
			env.lenient = true
			env.stack = s.continuations[name]
			r, stack, e := sub.scan(src, env)
			if e != nil {
				return e
			}
			s.continuations[name] = stack
			res = r
		}
	} else {
		for _, name := range f.mode.delegate {
			sub := s.resolve(name)
			if sub == nil {
				continue
			}

			r, _, e := sub.scan(src, env)
			if e != nil {
				if hilite.ErrorCode(e) == ErrIllegalConstruct {
					log.WithFields(logrus.Fields{"grammar": name, "error": e}).Debug("Delegated grammar rejected text")
					continue
				}
				return e
			}
			if res == nil || r.Relevance > res.Relevance {
				res = r
			}
		}
	}

	if res == nil {
		s.emit(Text, f.category, from, to, f.depth)
		return nil
	}

	s.splice(res, from, to, f.depth+1)
	if f.mode.relevance > 0 {
		s.relevance += res.Relevance
	}
	return nil
}

func (s *scanner) splice(res *Result, from, to, depth int) {
	base := s.src.Offset(from)
	s.regions = append(s.regions, Region{
		Category: LanguagePrefix + res.Grammar,
		Start:    base,
		End:      s.src.Offset(to),
		Depth:    depth,
		Grammar:  res.Grammar,
	})

	for _, r := range res.Regions {
		r.Start += base
		r.End += base
		r.Depth += depth
		s.regions = append(s.regions, r)
	}
	for _, t := range res.Tokens {
		t.Start += base
		t.End += base
		t.Depth += depth
		s.tokens = append(s.tokens, t)
	}
}
