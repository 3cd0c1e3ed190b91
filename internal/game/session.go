package game

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/KirkDiggler/fortuna/internal/common/random"
	"github.com/KirkDiggler/fortuna/internal/models"
	"github.com/KirkDiggler/fortuna/internal/phrases"
	"github.com/KirkDiggler/fortuna/internal/wheel"
)

// Session is the authoritative state of one game. It performs no locking;
// callers serialize access through the room directory.
type Session struct {
	gameID string
	pool   *phrases.Pool
	wheel  *wheel.Wheel
	roller random.Roller

	stake              models.Reward
	players            []*models.Player
	round              int
	maxRounds          int
	currentPlayerIndex int
	goodLetters        map[rune]bool
	badLetters         map[rune]bool
	phrase             models.Phrase
	currentLetter      string
	mode               models.Mode
	rotateDeg          float64
	totalRotateDeg     float64
	goodGuess          bool
	onlyVowels         bool
	afterRotate        bool
	hasRotated         bool
	solo               bool

	// spinSeq numbers spins; pendingSpin is the outstanding one or 0
	spinSeq     uint64
	pendingSpin uint64

	lastRound *RoundResult
}

// New starts a session on round 1 with the first player to move
func New(cfg *Config) (*Session, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.GameID == "" {
		return nil, ErrEmptyGameID
	}
	if len(cfg.Players) == 0 {
		return nil, ErrNoPlayers
	}
	if cfg.MaxRounds < 1 {
		return nil, ErrInvalidMaxRounds
	}
	if cfg.Pool == nil {
		return nil, ErrNilPool
	}
	if cfg.Wheel == nil {
		return nil, ErrNilWheel
	}
	if cfg.Roller == nil {
		return nil, ErrNilRoller
	}

	phrase, err := cfg.Pool.Draw()
	if err != nil {
		return nil, fmt.Errorf("failed to draw first phrase: %w", err)
	}

	players := make([]*models.Player, len(cfg.Players))
	copy(players, cfg.Players)

	return &Session{
		gameID:             cfg.GameID,
		pool:               cfg.Pool,
		wheel:              cfg.Wheel,
		roller:             cfg.Roller,
		stake:              models.Points(0),
		players:            players,
		round:              1,
		maxRounds:          cfg.MaxRounds,
		currentPlayerIndex: 0,
		goodLetters:        make(map[rune]bool),
		badLetters:         make(map[rune]bool),
		phrase:             phrase,
		mode:               models.ModeRotating,
		goodGuess:          true,
		solo:               len(players) == 1,
	}, nil
}

// GameID returns the session identifier
func (s *Session) GameID() string {
	return s.gameID
}

// Mode returns the current turn phase
func (s *Session) Mode() models.Mode {
	return s.mode
}

// Round returns the 1-based round number
func (s *Session) Round() int {
	return s.round
}

// SpinWheel rotates the wheel. The reward is applied later by ResolveSpin
// with the returned ticket.
func (s *Session) SpinWheel() (SpinTicket, error) {
	if err := s.checkPlaying(); err != nil {
		return SpinTicket{}, err
	}
	if s.mode != models.ModeRotating {
		return SpinTicket{}, fmt.Errorf("%w: cannot spin in %s mode", ErrActionNotAllowed, s.mode)
	}
	if s.pendingSpin != 0 {
		return SpinTicket{}, ErrSpinPending
	}

	inc := wheel.Increment(s.roller)
	s.totalRotateDeg += inc
	s.rotateDeg = inc
	s.hasRotated = true

	s.spinSeq++
	s.pendingSpin = s.spinSeq

	return SpinTicket{GameID: s.gameID, Seq: s.spinSeq}, nil
}

// ResolveSpin applies the reward under the pointer. It is a no-op returning
// ErrStaleSpin unless ticket is the outstanding spin and the turn is still
// waiting on it.
func (s *Session) ResolveSpin(ticket SpinTicket) (models.Reward, error) {
	if err := s.checkPlaying(); err != nil {
		return models.Reward{}, err
	}
	if ticket.GameID != s.gameID || s.pendingSpin == 0 || ticket.Seq != s.pendingSpin || s.mode != models.ModeRotating {
		return models.Reward{}, ErrStaleSpin
	}
	s.pendingSpin = 0

	selected := s.wheel.Value(s.totalRotateDeg)
	s.stake = selected

	switch selected.Kind {
	case models.RewardBankrupt:
		s.current().Amount = 0
		s.nextPlayer()
		s.enterLetterMode()
	case models.RewardStop:
		s.nextPlayer()
		s.enterLetterMode()
	default:
		s.mode = models.ModeLetter
		s.goodGuess = false
		s.afterRotate = true
	}

	return selected, nil
}

// LetMeGuess lets the current player go for the whole phrase
func (s *Session) LetMeGuess() error {
	if err := s.checkPlaying(); err != nil {
		return err
	}
	if s.mode != models.ModeRotating && s.mode != models.ModeLetter {
		return fmt.Errorf("%w: cannot start guessing in %s mode", ErrActionNotAllowed, s.mode)
	}

	s.mode = models.ModeGuessing
	return nil
}

// GuessLetter plays a letter. Matching is case-insensitive.
func (s *Session) GuessLetter(letter rune) error {
	if err := s.checkPlaying(); err != nil {
		return err
	}
	if !unicode.IsLetter(letter) {
		return fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
	}

	letter = unicode.ToUpper(letter)

	switch s.mode {
	case models.ModeGuessing:
		s.guessPhrase(letter)
	case models.ModeLetter:
		s.guessSingle(letter)
	default:
		return fmt.Errorf("%w: spin before guessing a letter", ErrActionNotAllowed)
	}

	return nil
}

func (s *Session) guessPhrase(letter rune) {
	if s.count(letter) == 0 {
		s.resetCurrentPlayer()
		return
	}

	s.goodLetters[letter] = true
	if len(s.unguessed()) == 0 {
		s.completeRound()
	}
}

func (s *Session) guessSingle(letter rune) {
	c := s.count(letter)
	if c == 0 {
		s.badLetters[letter] = true
		s.currentLetter = string(letter)
		s.goodGuess = false
		s.nextPlayer()
		return
	}

	s.current().Amount += s.stake.Multiplier() * float64(c)
	s.goodLetters[letter] = true
	s.currentLetter = string(letter)
	s.goodGuess = true

	left := s.unguessed()
	if len(left) == 0 {
		s.completeRound()
		return
	}

	onlyVowels := true
	for _, r := range left {
		if !Vowels[r] {
			onlyVowels = false
			break
		}
	}
	if onlyVowels {
		s.onlyVowels = true
	}

	s.mode = models.ModeRotating
}

// AddPoints credits stake times letterCount to the current player
func (s *Session) AddPoints(letterCount int) error {
	if err := s.checkPlaying(); err != nil {
		return err
	}
	if letterCount < 0 {
		return ErrInvalidLetterCount
	}

	s.current().Amount += s.stake.Multiplier() * float64(letterCount)
	return nil
}

// ResetStake clears the stake without changing the turn
func (s *Session) ResetStake() error {
	if err := s.checkPlaying(); err != nil {
		return err
	}

	s.stake = models.Points(0)
	return nil
}

// ResetCurrentPlayer empties the current pot and passes the turn
func (s *Session) ResetCurrentPlayer() error {
	if err := s.checkPlaying(); err != nil {
		return err
	}

	s.resetCurrentPlayer()
	return nil
}

// ResetHalf halves the current pot and passes the turn
func (s *Session) ResetHalf() error {
	if err := s.checkPlaying(); err != nil {
		return err
	}

	s.current().Amount /= 2
	s.nextPlayer()
	return nil
}

// NextPlayer passes the turn to the next connected player
func (s *Session) NextPlayer() error {
	if err := s.checkPlaying(); err != nil {
		return err
	}

	s.nextPlayer()
	return nil
}

// MarkDisconnected flags the player as gone and moves the turn on if they
// held it. It reports whether the turn moved.
func (s *Session) MarkDisconnected(playerID string) bool {
	idx := -1
	for i, p := range s.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	s.players[idx].Connected = false

	if s.mode == models.ModeGameOver || idx != s.currentPlayerIndex {
		return false
	}

	s.nextPlayer()
	return true
}

// TakeRoundResult returns the round completed by the last action, once
func (s *Session) TakeRoundResult() *RoundResult {
	r := s.lastRound
	s.lastRound = nil
	return r
}

// Snapshot copies the session into plain data safe to use after the
// directory lock is released
func (s *Session) Snapshot() *models.GameSnapshot {
	players := make([]*models.Player, len(s.players))
	for i, p := range s.players {
		cp := *p
		players[i] = &cp
	}

	return &models.GameSnapshot{
		GameID:             s.gameID,
		Stake:              s.stake,
		Players:            players,
		Round:              s.round,
		MaxRounds:          s.maxRounds,
		CurrentPlayerIndex: s.currentPlayerIndex,
		GoodLetters:        sortedLetters(s.goodLetters),
		BadLetters:         sortedLetters(s.badLetters),
		Phrase:             s.phrase.Text,
		Category:           s.phrase.Category,
		CurrentLetter:      s.currentLetter,
		Mode:               s.mode,
		RotateDeg:          s.rotateDeg,
		TotalRotateDeg:     s.totalRotateDeg,
		GoodGuess:          s.goodGuess,
		OnlyVowels:         s.onlyVowels,
		AfterRotate:        s.afterRotate,
		HasRotated:         s.hasRotated,
		Solo:               s.solo,
	}
}

func (s *Session) checkPlaying() error {
	if s.mode == models.ModeGameOver {
		return fmt.Errorf("%w: game is over", ErrGameNotStarted)
	}
	return nil
}

func (s *Session) current() *models.Player {
	if s.currentPlayerIndex < 0 || s.currentPlayerIndex >= len(s.players) {
		panic(fmt.Sprintf("game %s: current player index %d out of range [0,%d)", s.gameID, s.currentPlayerIndex, len(s.players)))
	}
	return s.players[s.currentPlayerIndex]
}

func (s *Session) resetCurrentPlayer() {
	s.current().Amount = 0
	s.nextPlayer()
}

func (s *Session) enterLetterMode() {
	if s.mode != models.ModeGameOver {
		s.mode = models.ModeLetter
	}
}

func (s *Session) nextPlayer() {
	s.hasRotated = false
	s.pendingSpin = 0

	if s.solo {
		s.mode = models.ModeRotating
		return
	}

	n := len(s.players)
	for i := 1; i <= n; i++ {
		idx := (s.currentPlayerIndex + i) % n
		if s.players[idx].Connected {
			s.currentPlayerIndex = idx
			s.mode = models.ModeRotating
			return
		}
	}

	s.currentPlayerIndex = -1
	s.mode = models.ModeGameOver
}

func (s *Session) completeRound() {
	winner := s.current()
	points := winner.Amount

	winner.Total += winner.Amount
	for _, p := range s.players {
		p.Amount = 0
	}

	s.lastRound = &RoundResult{
		Round:      s.round,
		Phrase:     s.phrase,
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		Points:     points,
	}

	s.pool.Retire(s.phrase)
	phrase, err := s.pool.Draw()
	if err != nil {
		panic(fmt.Sprintf("game %s: %v", s.gameID, err))
	}
	s.phrase = phrase

	clear(s.goodLetters)
	clear(s.badLetters)
	s.currentLetter = ""
	s.onlyVowels = false
	s.afterRotate = false
	s.totalRotateDeg = 0
	s.hasRotated = false
	s.round++

	s.nextPlayer()
}

// count returns the occurrences of an upper-case letter in the phrase
func (s *Session) count(letter rune) int {
	c := 0
	for _, r := range strings.ToUpper(s.phrase.Text) {
		if r == letter {
			c++
		}
	}
	return c
}

// unguessed returns the distinct phrase letters not yet revealed
func (s *Session) unguessed() []rune {
	seen := make(map[rune]bool)
	var out []rune
	for _, r := range strings.ToUpper(s.phrase.Text) {
		if !unicode.IsLetter(r) || s.goodLetters[r] || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

func sortedLetters(set map[rune]bool) []string {
	out := make([]string, 0, len(set))
	for r := range set {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}
