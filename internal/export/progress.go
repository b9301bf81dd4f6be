package export

// ProgressKind discriminates progress events.
type ProgressKind int

const (
	// ProgressUndetermined is a phase without a known total.
	ProgressUndetermined ProgressKind = iota
	// ProgressStart opens a counted phase.
	ProgressStart
	// ProgressUpdate advances a counted phase.
	ProgressUpdate
	// ProgressDone carries the written file path. It is the last event
	// of a successful run.
	ProgressDone
	// ProgressError carries the failure. It is the last event of a
	// failed run.
	ProgressError
)

// Progress is one export progress event. A run emits exactly one Done
// or one Error, never both; a cancelled run emits neither.
type Progress struct {
	Kind    ProgressKind
	Message string
	Curr    int
	Total   int
	Path    string
	Err     error
}

func undetermined(message string) Progress {
	return Progress{Kind: ProgressUndetermined, Message: message}
}

func start(message string, total int) Progress {
	return Progress{Kind: ProgressStart, Message: message, Total: total}
}

func update(message string, curr, total int) Progress {
	return Progress{Kind: ProgressUpdate, Message: message, Curr: curr, Total: total}
}

func done(path string) Progress {
	return Progress{Kind: ProgressDone, Path: path}
}

func failed(err error) Progress {
	return Progress{Kind: ProgressError, Err: err}
}
