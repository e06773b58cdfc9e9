package main

import (
	"fmt"

	"github.com/akmonengine/overlap"
	"github.com/akmonengine/overlap/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Slides a ball through a rotated crate and prints the Enter/Stay/Exit events of every step.
func main() {
	world := overlap.NewWorld(overlap.DefaultConfig(), nil)

	crate := actor.NewBody(
		"crate",
		actor.Transform{
			Position: mgl64.Vec3{0, 0, 0},
			Rotation: mgl64.QuatRotate(mgl64.DegToRad(30), mgl64.Vec3{0, 0, 1}),
		},
		&actor.Rect{Size: mgl64.Vec2{2, 2}},
		actor.BodyTypeStatic,
	)
	ball := actor.NewBody(
		"ball",
		actor.NewTransform(),
		&actor.Circle{Radius: 0.5},
		actor.BodyTypeDynamic,
	)
	world.AddBody(crate)
	world.AddBody(ball)

	world.Events.Subscribe(overlap.COLLISION_ENTER, func(event overlap.Event) {
		c := event.(overlap.CollisionEnterEvent).Contact
		fmt.Printf("  enter %s/%s depth=%.3f\n", c.BodyA.Name, c.BodyB.Name, c.Result.PenetrationDepth)
	})
	world.Events.Subscribe(overlap.COLLISION_STAY, func(event overlap.Event) {
		c := event.(overlap.CollisionStayEvent).Contact
		fmt.Printf("  stay  %s/%s depth=%.3f mtv=%v\n", c.BodyA.Name, c.BodyB.Name, c.Result.PenetrationDepth, c.Result.TranslationVector)
	})
	world.Events.Subscribe(overlap.COLLISION_EXIT, func(event overlap.Event) {
		e := event.(overlap.CollisionExitEvent)
		fmt.Printf("  exit  %s/%s\n", e.BodyA.Name, e.BodyB.Name)
	})

	for step := 0; step <= 12; step++ {
		x := -3.0 + 0.5*float64(step)
		transform := actor.NewTransform()
		transform.Position = mgl64.Vec3{x, 0.2, 0}
		ball.SetTransform(transform)

		fmt.Printf("step %2d ball.x=%.1f\n", step, x)
		if _, err := world.Step(); err != nil {
			fmt.Println("  error:", err)
		}
	}
}
