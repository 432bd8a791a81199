package sound

import "testing"

func TestMulti(t *testing.T) {
	var a, b []Effect
	p := Multi(
		PlayerFunc(func(e Effect) { a = append(a, e) }),
		Nop,
		PlayerFunc(func(e Effect) { b = append(b, e) }),
	)
	p.Play(Correct)
	p.Play(GameOver)
	if len(a) != 2 || len(b) != 2 || a[1] != GameOver || b[0] != Correct {
		t.Errorf("a = %v, b = %v", a, b)
	}
	NewLogPlayer().Play(Tick)
}
