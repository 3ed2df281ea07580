package game

import (
	"errors"
	"reflect"
	"testing"

	"github.com/decker502/cardmatch/pkg/config"
	"github.com/decker502/cardmatch/pkg/storage"
)

// fakeBoard 记录发牌和恢复调用的棋盘
type fakeBoard struct {
	setups   []string
	restored []CardSaveData
	slots    []*BoardSlot
}

func (b *fakeBoard) Setup(level config.LevelDefinition) int {
	b.setups = append(b.setups, level.Name)
	b.slots = make([]*BoardSlot, level.SlotCount())
	for i := range b.slots {
		b.slots[i] = &BoardSlot{CardType: level.CardTypes[(i/2)%len(level.CardTypes)]}
	}
	return level.PairCount()
}

func (b *fakeBoard) Restore(level config.LevelDefinition, cards []CardSaveData) int {
	total := b.Setup(level)
	b.restored = cards
	for _, c := range cards {
		if c.CardIndex < len(b.slots) {
			b.slots[c.CardIndex] = &BoardSlot{CardType: c.CardType, IsMatched: c.IsMatched, IsRevealed: c.IsRevealed}
		}
	}
	return total
}

func (b *fakeBoard) Slots() []*BoardSlot {
	return b.slots
}

// recordingPresenter 记录会话推送给展示层的事件
type recordingPresenter struct {
	recordingListener
	started []LevelInfo
	won     int
	failed  []string

	onStarted func()
}

func (p *recordingPresenter) LevelStarted(info LevelInfo) {
	p.started = append(p.started, info)
	if p.onStarted != nil {
		p.onStarted()
	}
}

func (p *recordingPresenter) LevelWon(score, turns int) { p.won++ }

func (p *recordingPresenter) LevelFailed(message string, score int) {
	p.failed = append(p.failed, message)
}

func (p *recordingPresenter) lastStarted(t *testing.T) LevelInfo {
	t.Helper()
	if len(p.started) == 0 {
		t.Fatal("no LevelStarted notification")
	}
	return p.started[len(p.started)-1]
}

type recordingSounds struct {
	played []string
}

func (s *recordingSounds) PlaySound(id string) bool {
	s.played = append(s.played, id)
	return true
}

type sessionFixture struct {
	backend   *storage.MemoryBackend
	progress  *LevelProgress
	saves     *SaveManager
	board     *fakeBoard
	presenter *recordingPresenter
	sounds    *recordingSounds
	session   *Session
}

// newSessionFixture 创建未启动的会话
func newSessionFixture(t *testing.T, catalog *config.LevelCatalog, backend *storage.MemoryBackend, loadOnStart bool) *sessionFixture {
	t.Helper()
	if backend == nil {
		backend = storage.NewMemoryBackend()
	}
	progress, err := NewLevelProgress(catalog, backend)
	if err != nil {
		t.Fatalf("NewLevelProgress: %v", err)
	}

	f := &sessionFixture{
		backend:   backend,
		progress:  progress,
		saves:     NewSaveManager(backend),
		board:     &fakeBoard{},
		presenter: &recordingPresenter{},
		sounds:    &recordingSounds{},
	}
	f.session, err = NewSession(SessionConfig{
		Progress:        progress,
		Saves:           f.saves,
		Board:           f.board,
		Presenter:       f.presenter,
		Sounds:          f.sounds,
		LoadOnStart:     loadOnStart,
		AutoSaveOnPause: true,
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return f
}

func startedFixture(t *testing.T, catalog *config.LevelCatalog) *sessionFixture {
	t.Helper()
	f := newSessionFixture(t, catalog, nil, true)
	if err := f.session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return f
}

// restrainedCatalog 单个 2x3 主线关卡（3 个配对），最多 maxTurns 回合
func restrainedCatalog(t *testing.T, maxTurns int) *config.LevelCatalog {
	t.Helper()
	catalog, err := config.NewLevelCatalog([]config.LevelDefinition{{
		Name:       "limited",
		Rows:       2,
		Columns:    3,
		CardTypes:  []string{"a", "b", "c"},
		Restrained: true,
		MaxTurns:   maxTurns,
	}}, nil)
	if err != nil {
		t.Fatalf("NewLevelCatalog: %v", err)
	}
	return catalog
}

func TestNewSessionValidation(t *testing.T) {
	backend := storage.NewMemoryBackend()
	progress, err := NewLevelProgress(newTestCatalog(t, 1, 0), backend)
	if err != nil {
		t.Fatalf("NewLevelProgress: %v", err)
	}

	if _, err := NewSession(SessionConfig{Saves: NewSaveManager(backend), Board: &fakeBoard{}}); !errors.Is(err, ErrNoLevelCatalog) {
		t.Errorf("missing progress: got %v, want ErrNoLevelCatalog", err)
	}
	if _, err := NewSession(SessionConfig{Progress: progress, Board: &fakeBoard{}}); err == nil {
		t.Error("missing save manager: expected error")
	}
	if _, err := NewSession(SessionConfig{Progress: progress, Saves: NewSaveManager(backend)}); err == nil {
		t.Error("missing board: expected error")
	}
}

func TestSessionStartFresh(t *testing.T) {
	f := startedFixture(t, newTestCatalog(t, 3, 2))

	if !reflect.DeepEqual(f.board.setups, []string{"main-0"}) {
		t.Errorf("board setups: got %v, want [main-0]", f.board.setups)
	}
	info := f.presenter.lastStarted(t)
	if info.Resumed {
		t.Error("fresh start reported as resumed")
	}
	if info.DisplayName != "Level 1" || info.TotalMatches != 2 || info.MaxTurns != NoTurnLimit {
		t.Errorf("LevelInfo: got %+v", info)
	}
	if f.session.Tracker() == nil || f.session.Tracker().TotalMatchesInLevel() != 2 {
		t.Error("tracker not configured with the board's pair count")
	}
}

func TestSessionStartResumesSave(t *testing.T) {
	backend := storage.NewMemoryBackend()
	record := &SaveRecord{
		CurrentLevelIndex:  1,
		Score:              250,
		TurnCount:          4,
		MatchesFound:       2,
		ConsecutiveMatches: 2,
		Cards: []CardSaveData{
			{CardIndex: 0, CardType: "a", IsMatched: true, IsRevealed: true},
			{CardIndex: 1, CardType: "a", IsMatched: true, IsRevealed: true},
		},
	}
	if err := NewSaveManager(backend).Save(record); err != nil {
		t.Fatalf("Save: %v", err)
	}

	f := newSessionFixture(t, newTestCatalog(t, 3, 2), backend, true)
	if err := f.session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 存档记录的关卡优先于进度键
	if f.progress.CurrentIndex() != 1 {
		t.Errorf("progress index: got %d, want 1", f.progress.CurrentIndex())
	}
	if !reflect.DeepEqual(f.board.restored, record.Cards) {
		t.Errorf("board restored cards: got %+v, want %+v", f.board.restored, record.Cards)
	}

	tracker := f.session.Tracker()
	if tracker.Score() != 250 || tracker.TurnCount() != 4 || tracker.MatchesFound() != 2 || tracker.ConsecutiveMatches() != 2 {
		t.Errorf("tracker after resume: score=%d turns=%d matches=%d combo=%d",
			tracker.Score(), tracker.TurnCount(), tracker.MatchesFound(), tracker.ConsecutiveMatches())
	}
	info := f.presenter.lastStarted(t)
	if !info.Resumed || info.Score != 250 || info.Index != 1 {
		t.Errorf("LevelInfo after resume: got %+v", info)
	}
}

func TestSessionStartIgnoresSaveWhenDisabled(t *testing.T) {
	backend := storage.NewMemoryBackend()
	if err := NewSaveManager(backend).Save(makeRecord(4)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	f := newSessionFixture(t, newTestCatalog(t, 3, 2), backend, false)
	if err := f.session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if f.presenter.lastStarted(t).Resumed {
		t.Error("resumed although loading on start is disabled")
	}
	if f.session.Tracker().Score() != 0 {
		t.Errorf("Score: got %d, want 0", f.session.Tracker().Score())
	}
}

func TestSessionStartCorruptSave(t *testing.T) {
	backend := storage.NewMemoryBackend()
	backend.Save(SaveKey, []byte("{{{ not yaml"))

	f := newSessionFixture(t, newTestCatalog(t, 3, 2), backend, true)
	if err := f.session.Start(); err != nil {
		t.Fatalf("Start with corrupt save: %v", err)
	}
	if f.presenter.lastStarted(t).Resumed {
		t.Error("corrupt save reported as resumed")
	}
	if !reflect.DeepEqual(f.board.setups, []string{"main-0"}) {
		t.Errorf("board setups: got %v, want [main-0]", f.board.setups)
	}
	// 损坏的存档不会在加载时删除
	if !backend.Exists(SaveKey) {
		t.Error("corrupt save should be left in place")
	}
}

// TestSessionStartUnrelatedSaveKeepsProgress 能解析但不是存档的文档不会把进度拉回第一关
func TestSessionStartUnrelatedSaveKeepsProgress(t *testing.T) {
	for _, doc := range []string{"::: nope", "name: shopping list\n", "score: 900\n"} {
		t.Run(doc, func(t *testing.T) {
			backend := storage.NewMemoryBackend()
			seed, err := NewLevelProgress(newTestCatalog(t, 3, 2), backend)
			if err != nil {
				t.Fatalf("NewLevelProgress: %v", err)
			}
			if err := seed.JumpToMain(2); err != nil {
				t.Fatalf("JumpToMain: %v", err)
			}
			backend.Save(SaveKey, []byte(doc))

			f := newSessionFixture(t, newTestCatalog(t, 3, 2), backend, true)
			if err := f.session.Start(); err != nil {
				t.Fatalf("Start: %v", err)
			}

			if f.progress.CurrentIndex() != 2 {
				t.Errorf("progress index: got %d, want 2", f.progress.CurrentIndex())
			}
			info := f.presenter.lastStarted(t)
			if info.Resumed || info.DisplayName != "Level 3" || info.Score != 0 {
				t.Errorf("LevelInfo: got %+v, want fresh Level 3", info)
			}
			if !reflect.DeepEqual(f.board.setups, []string{"main-2"}) {
				t.Errorf("board setups: got %v, want [main-2]", f.board.setups)
			}

			// 重新打开后进度仍是第三关
			reopened, err := NewLevelProgress(newTestCatalog(t, 3, 2), backend)
			if err != nil {
				t.Fatalf("NewLevelProgress: %v", err)
			}
			if reopened.CurrentIndex() != 2 {
				t.Errorf("persisted progress index: got %d, want 2", reopened.CurrentIndex())
			}
		})
	}
}

func TestSessionStartUnrestorableSaveLevel(t *testing.T) {
	backend := storage.NewMemoryBackend()
	record := makeRecord(0)
	record.CurrentLevelIndex = 7
	if err := NewSaveManager(backend).Save(record); err != nil {
		t.Fatalf("Save: %v", err)
	}

	f := newSessionFixture(t, newTestCatalog(t, 3, 0), backend, true)
	if err := f.session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if f.presenter.lastStarted(t).Resumed {
		t.Error("save for a missing level reported as resumed")
	}
	if f.progress.CurrentIndex() != 0 {
		t.Errorf("progress index: got %d, want 0", f.progress.CurrentIndex())
	}
}

func TestSessionCompleteLevel(t *testing.T) {
	f := startedFixture(t, newTestCatalog(t, 3, 2))
	if err := f.session.SaveGame(); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	outcome, err := f.session.PlayTurn(true)
	if err != nil || outcome.Completed {
		t.Fatalf("first match: outcome=%+v err=%v", outcome, err)
	}
	outcome, err = f.session.PlayTurn(true)
	if err != nil {
		t.Fatalf("second match: %v", err)
	}
	if !outcome.Completed || outcome.Match.Score != 250 {
		t.Errorf("second match outcome: got %+v", outcome)
	}

	if f.presenter.won != 1 {
		t.Errorf("LevelWon notifications: got %d, want 1", f.presenter.won)
	}
	if f.saves.Exists() {
		t.Error("save should be deleted after completion")
	}
	if !f.session.IsLevelOver() {
		t.Error("IsLevelOver: got false, want true")
	}

	if err := f.session.LevelCompleted(); err != nil {
		t.Errorf("second LevelCompleted: %v", err)
	}
	if f.presenter.won != 1 {
		t.Errorf("LevelCompleted should be idempotent, LevelWon count %d", f.presenter.won)
	}

	// 结束后的回合和存档都被忽略
	if outcome, _ := f.session.PlayTurn(true); outcome.Matched {
		t.Error("PlayTurn after completion should be ignored")
	}
	if err := f.session.SaveGame(); err != nil || f.saves.Exists() {
		t.Errorf("SaveGame after completion wrote a save (err=%v)", err)
	}

	if !containsSound(f.sounds.played, SoundWin) {
		t.Errorf("sounds: got %v, want %s", f.sounds.played, SoundWin)
	}
}

func TestSessionFailLevel(t *testing.T) {
	f := startedFixture(t, restrainedCatalog(t, 2))

	if _, err := f.session.PlayTurn(true); err != nil {
		t.Fatalf("PlayTurn: %v", err)
	}
	if err := f.session.SaveGame(); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	before, _ := f.backend.Load(SaveKey)

	outcome, err := f.session.PlayTurn(false)
	if err != nil {
		t.Fatalf("PlayTurn: %v", err)
	}
	if !outcome.Failed || outcome.Completed {
		t.Errorf("outcome on last turn: got %+v", outcome)
	}
	if len(f.presenter.failed) != 1 {
		t.Fatalf("LevelFailed notifications: got %d, want 1", len(f.presenter.failed))
	}
	if f.presenter.limitReached != 1 {
		t.Errorf("TurnLimitReached notifications: got %d, want 1", f.presenter.limitReached)
	}

	// 失败后不再自动存档，存档保持失败前的内容
	if err := f.session.OnPause(); err != nil {
		t.Fatalf("OnPause: %v", err)
	}
	after, _ := f.backend.Load(SaveKey)
	if string(before) != string(after) {
		t.Error("save changed after the level failed")
	}

	if outcome, _ := f.session.PlayTurn(false); outcome.Failed {
		t.Error("failure reported twice")
	}
	if len(f.presenter.failed) != 1 {
		t.Errorf("LevelFailed notifications: got %d, want 1", len(f.presenter.failed))
	}
}

// TestSessionCompleteOnLastTurn 最后一个允许的回合完成全部配对算过关
func TestSessionCompleteOnLastTurn(t *testing.T) {
	f := startedFixture(t, restrainedCatalog(t, 3))

	for i := 0; i < 3; i++ {
		outcome, err := f.session.PlayTurn(true)
		if err != nil {
			t.Fatalf("PlayTurn: %v", err)
		}
		if outcome.Failed {
			t.Fatalf("turn %d reported failure", i+1)
		}
	}
	if f.presenter.won != 1 || len(f.presenter.failed) != 0 {
		t.Errorf("won=%d failed=%d, want 1/0", f.presenter.won, len(f.presenter.failed))
	}
}

func TestSessionRestart(t *testing.T) {
	f := startedFixture(t, newTestCatalog(t, 3, 2))
	f.session.PlayTurn(true)
	if err := f.session.SaveGame(); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	if err := f.session.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if f.saves.Exists() {
		t.Error("Restart should delete the save")
	}
	if f.session.Tracker().Score() != 0 {
		t.Errorf("Score after restart: got %d, want 0", f.session.Tracker().Score())
	}
	if !f.session.JustRestarted() {
		t.Error("JustRestarted: got false, want true")
	}
	if !f.backend.Exists(LevelIndexKey) {
		t.Error("Restart should persist progress")
	}

	// 重玩后第一个回合之前不存档
	if err := f.session.OnPause(); err != nil || f.saves.Exists() {
		t.Errorf("auto-save right after restart wrote a save (err=%v)", err)
	}

	f.session.PlayTurn(false)
	if f.session.JustRestarted() {
		t.Error("JustRestarted should clear after the first turn")
	}
	if err := f.session.OnPause(); err != nil || !f.saves.Exists() {
		t.Errorf("auto-save after the first turn did not write a save (err=%v)", err)
	}
}

func TestSessionNextLevel(t *testing.T) {
	f := startedFixture(t, newTestCatalog(t, 3, 2))
	f.session.PlayTurn(true)
	f.session.PlayTurn(true)

	if err := f.session.NextLevel(); err != nil {
		t.Fatalf("NextLevel: %v", err)
	}
	if !reflect.DeepEqual(f.board.setups, []string{"main-0", "main-1"}) {
		t.Errorf("board setups: got %v", f.board.setups)
	}
	if f.progress.CurrentIndex() != 1 {
		t.Errorf("progress index: got %d, want 1", f.progress.CurrentIndex())
	}
	if f.session.IsLevelOver() {
		t.Error("new level should not be over")
	}
	if f.session.Tracker().TotalMatchesInLevel() != 3 {
		t.Errorf("TotalMatchesInLevel: got %d, want 3", f.session.Tracker().TotalMatchesInLevel())
	}
	if info := f.presenter.lastStarted(t); info.DisplayName != "Level 2" {
		t.Errorf("DisplayName: got %q, want Level 2", info.DisplayName)
	}
}

func TestSessionSubscriptionMovesToNewTracker(t *testing.T) {
	f := startedFixture(t, newTestCatalog(t, 3, 2))
	old := f.session.Tracker()

	if err := f.session.NextLevel(); err != nil {
		t.Fatalf("NextLevel: %v", err)
	}
	scores := len(f.presenter.scores)
	old.RecordMatch()
	if len(f.presenter.scores) != scores {
		t.Error("presenter still subscribed to the previous tracker")
	}

	f.session.PlayTurn(true)
	if len(f.presenter.scores) != scores+1 {
		t.Error("presenter not subscribed to the new tracker")
	}

	f.session.Close()
	f.session.Tracker().RecordMatch()
	if len(f.presenter.scores) != scores+1 {
		t.Error("presenter still subscribed after Close")
	}
}

func TestSessionJumps(t *testing.T) {
	f := startedFixture(t, newTestCatalog(t, 3, 2))
	f.session.PlayTurn(true)
	if err := f.session.SaveGame(); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	if err := f.session.JumpToMain(9); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("JumpToMain(9): got %v, want ErrOutOfRange", err)
	}
	if !f.saves.Exists() || f.progress.CurrentIndex() != 0 {
		t.Error("invalid jump should leave progress and save unchanged")
	}

	if err := f.session.JumpToRotating(1); err != nil {
		t.Fatalf("JumpToRotating: %v", err)
	}
	if f.saves.Exists() {
		t.Error("jump should delete the save")
	}
	if got := f.board.setups[len(f.board.setups)-1]; got != "rotating-1" {
		t.Errorf("board setup after jump: got %q, want rotating-1", got)
	}

	if err := f.session.JumpToMain(2); err != nil {
		t.Fatalf("JumpToMain: %v", err)
	}
	if got := f.board.setups[len(f.board.setups)-1]; got != "main-2" {
		t.Errorf("board setup after jump: got %q, want main-2", got)
	}

	if err := f.session.ResetProgress(); err != nil {
		t.Fatalf("ResetProgress: %v", err)
	}
	if f.progress.CurrentIndex() != 0 || f.presenter.lastStarted(t).DisplayName != "Level 1" {
		t.Errorf("after reset: index=%d", f.progress.CurrentIndex())
	}
}

func TestSessionRejectsReentrance(t *testing.T) {
	f := newSessionFixture(t, newTestCatalog(t, 3, 2), nil, true)

	var nested error
	f.presenter.onStarted = func() {
		nested = f.session.Restart()
	}
	if err := f.session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !errors.Is(nested, ErrSessionBusy) {
		t.Errorf("nested Restart: got %v, want ErrSessionBusy", nested)
	}

	f.presenter.onStarted = nil
	if err := f.session.Restart(); err != nil {
		t.Errorf("Restart after transition: %v", err)
	}
}

func TestSessionAutoSaveDisabled(t *testing.T) {
	backend := storage.NewMemoryBackend()
	progress, err := NewLevelProgress(newTestCatalog(t, 1, 0), backend)
	if err != nil {
		t.Fatalf("NewLevelProgress: %v", err)
	}
	saves := NewSaveManager(backend)
	session, err := NewSession(SessionConfig{Progress: progress, Saves: saves, Board: &fakeBoard{}})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	// 启动前没有进行中的关卡
	if err := session.SaveGame(); err != nil || saves.Exists() {
		t.Errorf("SaveGame before Start wrote a save (err=%v)", err)
	}

	if err := session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	session.PlayTurn(false)
	if err := session.OnPause(); err != nil {
		t.Fatalf("OnPause: %v", err)
	}
	if err := session.OnQuit(); err != nil {
		t.Fatalf("OnQuit: %v", err)
	}
	if saves.Exists() {
		t.Error("auto-save disabled but a save was written")
	}

	if err := session.SaveGame(); err != nil || !saves.Exists() {
		t.Errorf("explicit SaveGame did not write a save (err=%v)", err)
	}
}

func TestSessionSaveRoundTrip(t *testing.T) {
	f := startedFixture(t, newTestCatalog(t, 3, 2))
	f.session.PlayTurn(true)
	f.session.PlayTurn(false)
	if err := f.session.OnQuit(); err != nil {
		t.Fatalf("OnQuit: %v", err)
	}

	g := newSessionFixture(t, newTestCatalog(t, 3, 2), f.backend, true)
	if err := g.session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	tracker := g.session.Tracker()
	if tracker.Score() != 100 || tracker.TurnCount() != 2 || tracker.MatchesFound() != 1 || tracker.ConsecutiveMatches() != 0 {
		t.Errorf("resumed tracker: score=%d turns=%d matches=%d combo=%d",
			tracker.Score(), tracker.TurnCount(), tracker.MatchesFound(), tracker.ConsecutiveMatches())
	}
	if len(g.board.restored) != 4 {
		t.Errorf("restored cards: got %d, want 4", len(g.board.restored))
	}
}

// TestSessionEmptyBoardCompletes 没有配对的关卡开始即过关，可以进入下一关
func TestSessionEmptyBoardCompletes(t *testing.T) {
	catalog, err := config.NewLevelCatalog([]config.LevelDefinition{
		{Name: "single", Rows: 1, Columns: 1, CardTypes: []string{"a"}, MaxTurns: NoTurnLimit},
		{Name: "pair", Rows: 1, Columns: 2, CardTypes: []string{"a"}, MaxTurns: NoTurnLimit},
	}, nil)
	if err != nil {
		t.Fatalf("NewLevelCatalog: %v", err)
	}
	f := startedFixture(t, catalog)

	if !f.session.IsLevelOver() {
		t.Error("IsLevelOver: got false, want true")
	}
	if f.presenter.won != 1 {
		t.Errorf("LevelWon notifications: got %d, want 1", f.presenter.won)
	}
	if !containsSound(f.sounds.played, SoundWin) {
		t.Errorf("sounds: got %v, want %s", f.sounds.played, SoundWin)
	}

	if err := f.session.NextLevel(); err != nil {
		t.Fatalf("NextLevel: %v", err)
	}
	if f.session.IsLevelOver() || f.session.Level().Name != "pair" {
		t.Errorf("after NextLevel: level=%q over=%v", f.session.Level().Name, f.session.IsLevelOver())
	}
}

// TestSessionDiscardSave 删除存档后当前关卡从头开始，暂停时不会立刻写回存档
func TestSessionDiscardSave(t *testing.T) {
	f := startedFixture(t, newTestCatalog(t, 3, 2))
	if err := f.session.JumpToMain(1); err != nil {
		t.Fatalf("JumpToMain: %v", err)
	}
	f.session.PlayTurn(true)
	if err := f.session.OnPause(); err != nil || !f.saves.Exists() {
		t.Fatalf("OnPause should write a save (err=%v)", err)
	}

	if err := f.session.DiscardSave(); err != nil {
		t.Fatalf("DiscardSave: %v", err)
	}
	if f.saves.Exists() {
		t.Error("save still exists after DiscardSave")
	}
	if f.progress.CurrentIndex() != 1 {
		t.Errorf("progress index: got %d, want 1", f.progress.CurrentIndex())
	}
	if f.session.Tracker().Score() != 0 || f.session.Tracker().TurnCount() != 0 {
		t.Errorf("tracker not fresh: score=%d turns=%d", f.session.Tracker().Score(), f.session.Tracker().TurnCount())
	}
	if got := f.board.setups[len(f.board.setups)-1]; got != "main-1" {
		t.Errorf("last board setup: got %q, want main-1", got)
	}

	if err := f.session.OnPause(); err != nil {
		t.Fatalf("OnPause: %v", err)
	}
	if f.saves.Exists() {
		t.Error("OnPause right after DiscardSave wrote the save back")
	}

	f.session.PlayTurn(false)
	if err := f.session.OnPause(); err != nil || !f.saves.Exists() {
		t.Errorf("OnPause after a move should save again (err=%v)", err)
	}
}

func containsSound(played []string, id string) bool {
	for _, p := range played {
		if p == id {
			return true
		}
	}
	return false
}
