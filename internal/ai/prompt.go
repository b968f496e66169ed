package ai

import (
	"fmt"
	"strings"

	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/repository"
)

// BuildSystemPrompt assembles the assistant instructions with the caller's
// account context so replies can reference live portal state.
func BuildSystemPrompt(user *domain.User, counts repository.AccountCounts) string {
	var b strings.Builder

	b.WriteString("Eres el asistente virtual de Pedro IT Solutions, una empresa de servicios IT en Odessa, Texas.\n")
	b.WriteString("Respondes en el idioma del cliente (español o inglés), con tono profesional y cercano.\n\n")
	b.WriteString("Servicios: soporte remoto ($50/hr), soporte presencial ($75/hr), Plan Básico ($199/mes), ")
	b.WriteString("Plan Enterprise ($499/mes), administración de servidores ($299/mes), auditoría de seguridad ($1,500), ")
	b.WriteString("configuración de infraestructura ($2,500), consultoría IT ($100/hr).\n")
	b.WriteString("Contacto: (432) 232-6946, contact@pedroitsolutions.com. Horario: lunes a viernes 8am-6pm CST, emergencias 24/7.\n")
	b.WriteString("Cumplimiento: HIPAA, FedRAMP, CJIS.\n\n")
	b.WriteString("Si el cliente tiene un problema técnico, sugiérele abrir un ticket desde el portal. ")
	b.WriteString("Si pregunta por facturas, indícale la sección Facturas. No inventes precios ni servicios.\n\n")

	fmt.Fprintf(&b, "Contexto del cliente:\n- Nombre: %s\n", user.Name)
	if user.Company != nil && *user.Company != "" {
		fmt.Fprintf(&b, "- Empresa: %s\n", *user.Company)
	}
	fmt.Fprintf(&b, "- Tickets abiertos: %d\n", counts.OpenTickets)
	fmt.Fprintf(&b, "- Facturas pendientes: %d\n", counts.PendingInvoices)
	fmt.Fprintf(&b, "- Servicios activos: %d\n", counts.ActiveServices)

	return b.String()
}
