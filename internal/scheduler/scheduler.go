package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Tienda-api/internal/application/alerts"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// Scheduler ejecuta las tareas periódicas de la aplicación. Por ahora solo el
// escaneo de vencimientos; el motor de alertas de stock no necesita cron porque
// se dispara en cada movimiento.
type Scheduler struct {
	cron     *cron.Cron
	engine   *alerts.Engine
	scanSpec string
	log      *logger.Logger
}

// New construye el scheduler. scanSpec es una expresión cron estándar de 5
// campos, por ejemplo "0 6 * * *" (todos los días a las 06:00).
func New(engine *alerts.Engine, scanSpec string, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		engine:   engine,
		scanSpec: scanSpec,
		log:      log,
	}
}

// Start registra y arranca las tareas. Ejecuta un escaneo inmediato al iniciar
// para no esperar hasta la próxima marca del cron tras un reinicio.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.scanSpec, s.scanExpirations); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.scanSpec).Msg("scheduler iniciado")

	go s.scanExpirations()
	return nil
}

// Stop detiene el cron y espera a que terminen las tareas en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler detenido")
}

func (s *Scheduler) scanExpirations() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	created, err := s.engine.EvaluateExpirations(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("escaneo de vencimientos falló")
		return
	}
	s.log.Info().Int("created", created).Msg("escaneo de vencimientos completado")
}
