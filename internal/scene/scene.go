package scene

// Scene supplies cameras to the rendering engine and receives screen and
// tick notifications from the host.
type Scene interface {
	// Cameras renders to the display, in order.
	Cameras() []Camera
	// RenderingTargetCameras renders into the named offscreen target.
	RenderingTargetCameras(targetName string) []Camera
	OnScreenConfigUpdate(width, height int)
	Update()
}

// BasicScene is a Scene with explicit camera lists
type BasicScene struct {
	cameras       []Camera
	targetCameras map[string][]Camera
	width, height int

	// OnUpdate, if set, runs on every Update tick.
	OnUpdate func()
}

var _ Scene = (*BasicScene)(nil)

func NewBasicScene() *BasicScene {
	return &BasicScene{targetCameras: make(map[string][]Camera)}
}

// AddCamera adds c to the display camera list
func (s *BasicScene) AddCamera(c Camera) {
	s.cameras = append(s.cameras, c)
}

// AddTargetCamera makes c render into the offscreen target named targetName
func (s *BasicScene) AddTargetCamera(targetName string, c Camera) {
	s.targetCameras[targetName] = append(s.targetCameras[targetName], c)
}

func (s *BasicScene) Cameras() []Camera {
	return s.cameras
}

func (s *BasicScene) RenderingTargetCameras(targetName string) []Camera {
	return s.targetCameras[targetName]
}

func (s *BasicScene) OnScreenConfigUpdate(width, height int) {
	s.width, s.height = width, height
}

// ScreenSize returns the last size received from OnScreenConfigUpdate
func (s *BasicScene) ScreenSize() (int, int) {
	return s.width, s.height
}

func (s *BasicScene) Update() {
	if s.OnUpdate != nil {
		s.OnUpdate()
	}
}
