package chatbot

// DefaultRules is the portal's built-in response table. Order matters:
// earlier rules shadow later ones wherever keyword sets overlap.
func DefaultRules() []Rule {
	return []Rule{
		{
			Keywords: []string{"hola", "hi", "hello", "buenos", "buenas", "saludos", "hey"},
			Response: `¡Hola! Bienvenido a Pedro IT Solutions.

Soy tu asistente virtual. ¿En qué puedo ayudarte hoy?

• Información sobre servicios
• Precios y planes
• Abrir un ticket de soporte
• Consultas generales

Escribe tu pregunta y te ayudaré.`,
		},
		{
			Keywords: []string{"precio", "costo", "cuanto", "tarifa", "cobran", "vale", "rate"},
			Response: `Nuestros precios:

• Soporte Remoto: $50/hora
• Soporte Presencial: $75/hora
• Plan Básico: $199/mes (5 horas incluidas)
• Plan Enterprise: $499/mes (soporte ilimitado)
• Administración de Servidores: $299/mes
• Auditoría de Seguridad: $1,500
• Configuración de Infraestructura: $2,500
• Consultoría IT: $100/hora

¿Te interesa algún servicio en particular?`,
		},
		{
			Keywords: []string{"servicio", "servicios", "ofrecen", "hacen", "pueden", "service"},
			Response: `Nuestros servicios:

• Soporte Técnico Remoto - 24/7 para toda USA
• Soporte Presencial - Odessa, TX y alrededores
• Hosting en Nube Privada - Servidores propios
• Ciberseguridad - HIPAA, FedRAMP, CJIS
• Desarrollo de Software - Windows, Android, iOS
• Backup y Recuperación - Protección de datos
• Administración de Redes - Diseño y gestión
• Consultoría IT - Estrategia tecnológica

¿Sobre cuál quieres más información?`,
		},
		{
			Keywords: []string{"horario", "hora", "atienden", "abierto", "disponible", "hours"},
			Response: `Horarios de atención:

• Lunes a Viernes: 8:00 AM - 6:00 PM (CST)
• Soporte de emergencia: 24/7

Para emergencias fuera de horario, llámanos al (432) 232-6946.`,
		},
		{
			Keywords: []string{"contacto", "contactar", "llamar", "telefono", "email", "correo", "contact"},
			Response: `Información de contacto:

• Teléfono: (432) 232-6946
• Email: contact@pedroitsolutions.com
• Ubicación: Odessa, TX 79761

¿Prefieres que te contactemos nosotros?`,
		},
		{
			Keywords: []string{"ticket", "problema", "ayuda", "soporte", "error", "falla", "no funciona", "issue", "help"},
			Response: `¿Necesitas ayuda técnica?

Puedes abrir un ticket de soporte desde el menú: "Tickets" → "Nuevo Ticket".
Describe tu problema con el mayor detalle posible.

Tiempos de respuesta:
• Plan Enterprise: < 1 hora
• Plan Básico: < 4 horas
• Sin plan: < 24 horas

¿Es una emergencia? Llama al (432) 232-6946.`,
		},
		{
			Keywords: []string{"pago", "pagar", "factura", "stripe", "tarjeta", "metodo", "payment", "invoice"},
			Response: `Métodos de pago:

• Tarjeta de crédito/débito (Visa, Mastercard, Amex)
• Transferencia bancaria
• ACH

Todas las transacciones son seguras y procesadas por Stripe.
Puedes ver y pagar tus facturas en: Menú → "Facturas".`,
		},
		{
			Keywords: []string{"seguridad", "hipaa", "fedramp", "cjis", "cumplimiento", "compliance", "security"},
			Response: `Certificaciones de seguridad:

• HIPAA - Cumplimiento para sector salud
• FedRAMP - Listo para gobierno federal
• CJIS - Seguridad para justicia criminal
• SSL/TLS - Encriptación de datos
• Firewall empresarial - Protección avanzada

Tus datos están protegidos con los más altos estándares de seguridad empresarial.`,
		},
		{
			Keywords: []string{"emergencia", "urgente", "caido", "offline", "critico", "emergency", "down"},
			Response: `¿Es una emergencia?

Para soporte de emergencia 24/7 llama AHORA al (432) 232-6946.

O abre un ticket con prioridad "URGENTE" y te atenderemos de inmediato.
Clientes Enterprise tienen garantía de respuesta < 1 hora.`,
		},
		{
			Keywords: []string{"plan", "planes", "suscripcion", "mensual", "contratar", "subscription"},
			Response: `Planes disponibles:

Plan Básico - $199/mes
• 5 horas de soporte incluidas
• Monitoreo básico
• Respuesta < 4 horas

Plan Enterprise - $499/mes
• Soporte ilimitado
• SLA 99.9% uptime
• Respuesta < 1 hora
• Gestor de cuenta dedicado

¿Quieres contratar algún plan?`,
		},
		{
			Keywords: []string{"quien", "empresa", "about", "sobre", "ustedes", "pedro"},
			Response: `Sobre Pedro IT Solutions:

Somos una empresa de servicios IT con sede en Odessa, Texas, sirviendo a
negocios locales y clientes remotos en todo Estados Unidos.

• +12 años de experiencia en IT
• Infraestructura propia
• Cumplimiento empresarial (HIPAA, FedRAMP, CJIS)
• Soporte 24/7 real
• Precios transparentes`,
		},
		{
			Keywords: []string{"gracias", "thanks", "thank", "genial", "excelente", "perfecto", "great"},
			Response: `¡Con gusto! Estamos aquí para ayudarte.

Si tienes más preguntas, no dudes en escribirme.
¿Hay algo más en lo que pueda asistirte?`,
		},
		{
			Keywords: []string{"adios", "bye", "chao", "hasta luego", "nos vemos", "goodbye"},
			Response: `¡Hasta pronto!

Recuerda que estamos disponibles:
• Lunes - Viernes: 8am - 6pm
• Emergencias: 24/7

¡Gracias por confiar en Pedro IT Solutions!`,
		},
		{
			Keywords: []string{"remoto", "remote", "distancia", "online"},
			Response: `Soporte remoto:

Ofrecemos soporte técnico remoto 24/7 para clientes en todo Estados Unidos.

• Conexión segura a tu equipo
• Resolución de problemas en tiempo real
• Sin necesidad de visita presencial

Precio: $50/hora. ¿Necesitas soporte remoto ahora?`,
		},
		{
			Keywords: []string{"servidor", "server", "hosting", "cloud", "nube"},
			Response: `Servicios de servidor:

Administración de Servidores - $299/mes
• Windows Server y Linux
• Actualizaciones y parches
• Monitoreo 24/7
• Backups automáticos

Hosting en Nube Privada con servidores propios, cumplimiento HIPAA/CJIS y
uptime 99.9% garantizado. ¿Te interesa migrar a nuestra infraestructura?`,
		},
	}
}

// DefaultFallback is returned when no rule matches.
const DefaultFallback = `No estoy seguro de entender tu pregunta.

Puedo ayudarte con:
• Precios - Escribe "precios"
• Servicios - Escribe "servicios"
• Contacto - Escribe "contacto"
• Abrir ticket - Escribe "ticket"
• Emergencias - Escribe "emergencia"

O si prefieres hablar con una persona, llama al (432) 232-6946.`

// NewDefaultMatcher builds the matcher with the portal's built-in rules.
func NewDefaultMatcher() *Matcher {
	return NewMatcher(DefaultRules(), DefaultFallback)
}
