package sim_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitgif/internal/encode"
	"github.com/san-kum/orbitgif/internal/integrators"
	"github.com/san-kum/orbitgif/internal/metrics"
	"github.com/san-kum/orbitgif/internal/physics"
	"github.com/san-kum/orbitgif/internal/render"
	"github.com/san-kum/orbitgif/internal/sim"
)

// counterStepper moves every body one unit along x per step, so a body's
// x coordinate equals the number of steps taken.
type counterStepper struct {
	failAt int
	calls  int
}

func (c *counterStepper) Step(bodies []physics.Body) ([]physics.Body, error) {
	c.calls++
	if c.failAt > 0 && c.calls == c.failAt {
		return nil, &physics.SingularityError{I: 0, J: 1}
	}
	next := physics.Clone(bodies)
	for i := range next {
		next[i] = next[i].Moved(next[i].Position.Add(physics.V(1, 0)))
	}
	return next, nil
}

// stepRenderer encodes the step count of the first body in a 1x1 frame,
// sleeping a varying amount so concurrent renders finish out of order.
type stepRenderer struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (r *stepRenderer) Render(bodies []physics.Body) (image.Image, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.fail {
		return nil, render.ErrCanvasTooLarge
	}
	step := int(bodies[0].Position.X)
	time.Sleep(time.Duration((7-step%7)*100) * time.Microsecond)
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.Pix[0] = uint8(step)
	return img, nil
}

type memorySink struct {
	frames    []image.Image
	closed    bool
	discarded bool
	closeErr  error
}

func (s *memorySink) Append(img image.Image) error {
	s.frames = append(s.frames, img)
	return nil
}

func (s *memorySink) Close() error {
	s.closed = true
	return s.closeErr
}

func (s *memorySink) Discard() error {
	s.discarded = true
	s.frames = nil
	return nil
}

func (s *memorySink) steps() []int {
	out := make([]int, len(s.frames))
	for i, f := range s.frames {
		out[i] = int(f.(*image.Gray).Pix[0])
	}
	return out
}

func seq(from, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = from + i
	}
	return out
}

var _ = Describe("Simulator", func() {
	var (
		stepper  *counterStepper
		renderer *stepRenderer
		sink     *memorySink
		bodies   []physics.Body
		cfg      sim.Config
	)

	BeforeEach(func() {
		stepper = &counterStepper{}
		renderer = &stepRenderer{}
		sink = &memorySink{}
		bodies = []physics.Body{physics.NewBody(1, 1, physics.V(0, 0), physics.V(0, 0), 4)}
		cfg = sim.Config{Dt: 0.1, PreSimFrames: 5, TotalFrames: 10, Workers: 1}
	})

	Describe("phases", func() {
		It("renders only the recording steps", func() {
			result, err := sim.New(stepper, renderer).Run(context.Background(), bodies, sink, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.StepsTaken).To(Equal(15))
			Expect(result.Frames).To(Equal(10))
			Expect(renderer.calls).To(Equal(10))
			Expect(sink.closed).To(BeTrue())
			Expect(sink.discarded).To(BeFalse())
			Expect(sink.steps()).To(Equal(seq(6, 10)))
		})

		It("returns the final body set", func() {
			result, err := sim.New(stepper, renderer).Run(context.Background(), bodies, sink, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Bodies).To(HaveLen(1))
			Expect(result.Bodies[0].Position.X).To(Equal(15.0))
			Expect(result.Bodies[0].Trail().Len()).To(Equal(4))
		})

		It("leaves the initial bodies untouched", func() {
			_, err := sim.New(stepper, renderer).Run(context.Background(), bodies, sink, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(bodies[0].Position).To(Equal(physics.V(0, 0)))
		})

		It("renders every step without warm-up", func() {
			cfg.PreSimFrames = 0
			_, err := sim.New(stepper, renderer).Run(context.Background(), bodies, sink, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(sink.steps()).To(Equal(seq(1, 10)))
		})
	})

	Describe("parallel rendering", func() {
		for _, workers := range []int{2, 3, 4, 16} {
			It(fmt.Sprintf("keeps step order with %d workers", workers), func() {
				cfg.Workers = workers
				cfg.TotalFrames = 23
				result, err := sim.New(stepper, renderer).Run(context.Background(), bodies, sink, cfg)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Frames).To(Equal(23))
				Expect(sink.steps()).To(Equal(seq(6, 23)))
			})
		}
	})

	Describe("failures", func() {
		It("aborts on a numerical singularity without closing the sink", func() {
			stepper.failAt = 8
			result, err := sim.New(stepper, renderer).Run(context.Background(), bodies, sink, cfg)

			Expect(errors.Is(err, physics.ErrSingular)).To(BeTrue())
			var se *sim.SimulationError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Step).To(Equal(7))
			Expect(result.StepsTaken).To(Equal(7))
			Expect(sink.closed).To(BeFalse())
			Expect(sink.discarded).To(BeTrue())
		})

		It("removes frames already written to files on a singularity", func() {
			dir, err := os.MkdirTemp("", "orbitgif-sim")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(os.RemoveAll, dir)

			gifFile, err := encode.NewGIFFile(filepath.Join(dir, "out.gif"), nil, 20*time.Millisecond)
			Expect(err).NotTo(HaveOccurred())
			frames, err := encode.NewPNGDir(filepath.Join(dir, "frames"))
			Expect(err).NotTo(HaveOccurred())

			stepper.failAt = 8
			result, err := sim.New(stepper, renderer).Run(context.Background(), bodies, encode.Multi{gifFile, frames}, cfg)
			Expect(err).To(MatchError(physics.ErrSingular))
			Expect(result.Frames).To(Equal(2))

			entries, err := os.ReadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})

		It("aborts on a render failure", func() {
			renderer.fail = true
			cfg.Workers = 3
			_, err := sim.New(stepper, renderer).Run(context.Background(), bodies, sink, cfg)
			Expect(errors.Is(err, render.ErrCanvasTooLarge)).To(BeTrue())
			Expect(sink.frames).To(BeEmpty())
			Expect(sink.closed).To(BeFalse())
		})

		It("surfaces sink errors from Close", func() {
			sink.closeErr = encode.ErrNoFrames
			_, err := sim.New(stepper, renderer).Run(context.Background(), bodies, sink, cfg)
			Expect(err).To(MatchError(encode.ErrNoFrames))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := sim.New(stepper, renderer).Run(ctx, bodies, sink, cfg)
			Expect(err).To(MatchError(context.Canceled))
			Expect(sink.closed).To(BeFalse())
		})

		DescribeTable("rejects invalid configuration",
			func(c sim.Config) {
				_, err := sim.New(stepper, renderer).Run(context.Background(), bodies, sink, c)
				Expect(err).To(HaveOccurred())
				Expect(stepper.calls).To(BeZero())
			},
			Entry("zero dt", sim.Config{Dt: 0, TotalFrames: 1}),
			Entry("negative dt", sim.Config{Dt: -1, TotalFrames: 1}),
			Entry("negative warm-up", sim.Config{Dt: 0.1, PreSimFrames: -1, TotalFrames: 1}),
			Entry("negative frames", sim.Config{Dt: 0.1, TotalFrames: -1}),
		)

		It("rejects an empty body set", func() {
			_, err := sim.New(stepper, renderer).Run(context.Background(), nil, sink, cfg)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("observers and metrics", func() {
		It("sees the initial state and every step", func() {
			var seen []sim.Snapshot
			s := sim.New(stepper, renderer)
			s.AddObserver(sim.ObserverFunc(func(snap sim.Snapshot) { seen = append(seen, snap) }))

			_, err := s.Run(context.Background(), bodies, sink, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(HaveLen(16))
			Expect(seen[0].Step).To(Equal(-1))
			Expect(seen[5].Recording).To(BeFalse())
			Expect(seen[6].Recording).To(BeTrue())
			Expect(seen[15].Time).To(BeNumerically("~", 1.5, 1e-12))
		})

		It("reports metric values", func() {
			s := sim.New(stepper, renderer)
			s.AddMetric(metrics.NewMinSeparation())

			two := append(bodies, physics.NewBody(1, 1, physics.V(0, 2), physics.V(0, 0), 0))
			result, err := s.Run(context.Background(), two, sink, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Metrics).To(HaveKeyWithValue("min_separation", 2.0))
		})
	})
})

var _ = Describe("figure-eight run", func() {
	It("integrates, renders and encodes a short animation", func() {
		const g, dt = 1.0, 1.0 / 60.0
		renderer, err := render.NewRenderer(
			render.Options{Width: 64, Height: 64, AliasScale: 2, TailWidth: 1},
			render.Projector{Zoom: 24, Width: 64, Height: 64},
		)
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		sink := encode.NewGIF(&buf, nil, 20*time.Millisecond)

		s := sim.New(integrators.NewSymplecticEuler(g, dt), renderer)
		drift := metrics.NewEnergyDrift(g)
		s.AddMetric(drift)
		s.AddMetric(metrics.NewMomentumDrift())

		result, err := s.Run(context.Background(), physics.FigureEight(2, 20), sink,
			sim.Config{Dt: dt, PreSimFrames: 30, TotalFrames: 12, Workers: 4})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(Equal(42))
		Expect(result.Metrics["energy_drift"]).To(BeNumerically("<", 0.01))
		Expect(result.Metrics["momentum_drift"]).To(BeNumerically("<", 1e-12))

		anim, err := gif.DecodeAll(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(anim.Image).To(HaveLen(12))
		Expect(anim.Config.Width).To(Equal(64))

		for _, b := range result.Bodies {
			Expect(b.Trail().Len()).To(Equal(20))
		}
	})

	It("fails on coincident bodies before writing any frame", func() {
		bodies := []physics.Body{
			physics.NewBody(1, 1, physics.V(0.5, 0.5), physics.V(0, 0), 5),
			physics.NewBody(1, 1, physics.V(0.5, 0.5), physics.V(0, 0), 5),
		}
		sink := &memorySink{}
		s := sim.New(integrators.NewSymplecticEuler(1, 0.01), &stepRenderer{})

		_, err := s.Run(context.Background(), bodies, sink, sim.Config{Dt: 0.01, TotalFrames: 5})
		Expect(err).To(MatchError(physics.ErrSingular))
		Expect(sink.frames).To(BeEmpty())
		Expect(sink.closed).To(BeFalse())
	})
})
