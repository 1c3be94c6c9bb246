package player

import "testing"

func newFlagEngine() *Engine {
	return &Engine{
		readyCh:    make(chan struct{}, 1),
		finishedCh: make(chan struct{}, 1),
		done:       make(chan struct{}),
		loopDone:   make(chan struct{}),
	}
}

func TestEngine_EndFileAfterLoadedIsNatural(t *testing.T) {
	e := newFlagEngine()
	e.beginLoad()
	e.markLoaded()

	if !e.endFileIsNatural() {
		t.Error("a played-out source must report a natural finish")
	}
}

func TestEngine_SwapWhileLoadingSuppressesEndFile(t *testing.T) {
	e := newFlagEngine()
	e.beginLoad()
	// Second source requested before the first came up.
	e.beginLoad()

	if e.endFileIsNatural() {
		t.Error("an aborted in-flight load must not report a finish")
	}

	e.markLoaded()
	if !e.endFileIsNatural() {
		t.Error("the swapped-in source playing out must still report")
	}
}

func TestEngine_SwapWhilePlayingSuppressesEndFile(t *testing.T) {
	e := newFlagEngine()
	e.beginLoad()
	e.markLoaded()
	e.beginLoad()

	if e.endFileIsNatural() {
		t.Error("the displaced source's end-file must not report a finish")
	}
}

func TestEngine_StopSuppressesEndFile(t *testing.T) {
	e := newFlagEngine()
	e.beginLoad()
	e.markLoaded()
	e.markStopped()

	if e.endFileIsNatural() {
		t.Error("a stopped source's end-file must not report a finish")
	}
}

func TestEngine_StopWhileLoadingSuppressesEndFile(t *testing.T) {
	e := newFlagEngine()
	e.beginLoad()
	e.markStopped()

	if e.endFileIsNatural() {
		t.Error("stopping an in-flight load must not report a finish")
	}
}

func TestEngine_FailedLoadDoesNotReportFinish(t *testing.T) {
	e := newFlagEngine()
	e.beginLoad()

	// End-file with no preceding file-loaded: the source never came up.
	if e.endFileIsNatural() {
		t.Error("a load that never reached file-loaded must not report a finish")
	}
}
