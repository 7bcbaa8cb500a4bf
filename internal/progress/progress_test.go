package progress

import "testing"

func TestVoid(t *testing.T) {
	var sink Sink = NewVoid()
	sink.Start("training classifier")
	sink.Tick()
	sink.Done()
}

func TestLog(t *testing.T) {
	var sink Sink = NewLog()
	sink.Start("saving classifier")
	sink.Tick()
	sink.Tick()
	sink.Done()
}
