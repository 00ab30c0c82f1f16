// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package content

import "strings"

// Pack holds the per-language constants: localized section titles,
// credential labels, templates with {topic} and {company} placeholders, and
// filename qualifiers. Missing language codes fall back to English.
type Pack struct {
	Code string

	SectionTitles map[string]string
	Greeting      string
	Closing       string

	TitleTemplates []string
	BodyTemplates  []string

	// ConfigHeading heads the embedded credential block.
	ConfigHeading string

	credentialLabels map[string]string

	FilenameQualifiers []string
}

// SupportedLanguages is the closed set of language codes with a full pack.
var SupportedLanguages = []string{"en", "fr", "es", "de", "it", "pt", "nl", "tr", "zh", "ja"}

// PackFor returns the language pack for code, or the English pack when the
// code has no pack.
func PackFor(code string) Pack {
	if p, ok := packs[code]; ok {
		return p
	}
	return packs["en"]
}

// SectionTitle returns the localized title for a canonical section key,
// falling back to English, then to the key itself.
func (p Pack) SectionTitle(key string) string {
	if t, ok := p.SectionTitles[key]; ok {
		return t
	}
	if t, ok := packs["en"].SectionTitles[key]; ok {
		return t
	}
	return key
}

// LabelFor maps a credential type to its localized display label by type
// family ("Clé API" for api-key-like types under fr, and so on).
func (p Pack) LabelFor(credType string) string {
	family := credentialFamily(credType)
	if l, ok := p.credentialLabels[family]; ok {
		return l
	}
	return packs["en"].credentialLabels[family]
}

// credentialFamily buckets a type identifier into a label family. Order
// matters: more specific markers first.
func credentialFamily(credType string) string {
	t := strings.ToLower(credType)
	switch {
	case strings.Contains(t, "private_key") || strings.Contains(t, "ssh"):
		return "private_key"
	case strings.Contains(t, "certificate"):
		return "certificate"
	case strings.Contains(t, "connection") || strings.Contains(t, "uri") ||
		strings.Contains(t, "dsn") || strings.Contains(t, "credentials") ||
		strings.Contains(t, "jdbc") || strings.Contains(t, "smtp"):
		return "connection"
	case strings.Contains(t, "webhook"):
		return "webhook"
	case strings.Contains(t, "password"):
		return "password"
	case strings.Contains(t, "secret"):
		return "secret"
	case strings.Contains(t, "api_key") || strings.HasSuffix(t, "_key"):
		return "api_key"
	case strings.Contains(t, "token") || strings.Contains(t, "pat") ||
		strings.Contains(t, "jwt") || strings.Contains(t, "bearer") ||
		strings.Contains(t, "auth") || strings.Contains(t, "sid"):
		return "token"
	default:
		return "credential"
	}
}

var packs = map[string]Pack{
	"en": {
		Code: "en",
		SectionTitles: map[string]string{
			"overview": "Overview", "background": "Background", "details": "Details",
			"configuration": "Configuration", "implementation": "Implementation",
			"security": "Security Considerations", "timeline": "Timeline",
			"next_steps": "Next Steps", "summary": "Summary", "agenda": "Agenda",
			"budget": "Budget", "contacts": "Contacts", "setup": "Environment Setup",
			"notes": "Notes",
		},
		Greeting: "Dear team,",
		Closing:  "Best regards,",
		TitleTemplates: []string{
			"{topic} — Implementation Plan",
			"{company}: {topic} Status Report",
			"Internal Briefing: {topic}",
			"{topic} Rollout Notes",
		},
		BodyTemplates: []string{
			"This document summarizes the current state of the {topic} initiative at {company}. The working group has reviewed the open items and agreed on the steps described below.",
			"As part of the ongoing {topic} work, {company} has consolidated the relevant environment details in this document. Please review them before the next sync.",
			"The {topic} milestone requires coordination across several teams at {company}. The sections below capture the agreed scope, the technical parameters, and the remaining risks.",
		},
		ConfigHeading: "Configuration Details",
		credentialLabels: map[string]string{
			"api_key": "API Key", "token": "Access Token", "password": "Password",
			"connection": "Connection String", "private_key": "Private Key",
			"certificate": "Certificate", "webhook": "Webhook URL",
			"secret": "Client Secret", "credential": "Credential",
		},
		FilenameQualifiers: []string{"report", "briefing", "notes", "plan", "summary"},
	},
	"fr": {
		Code: "fr",
		SectionTitles: map[string]string{
			"overview": "Vue d'ensemble", "background": "Contexte", "details": "Détails",
			"configuration": "Configuration", "implementation": "Mise en œuvre",
			"security": "Considérations de sécurité", "timeline": "Calendrier",
			"next_steps": "Prochaines étapes", "summary": "Résumé", "agenda": "Ordre du jour",
			"budget": "Budget", "contacts": "Contacts", "setup": "Préparation de l'environnement",
			"notes": "Remarques",
		},
		Greeting: "Bonjour à toutes et à tous,",
		Closing:  "Cordialement,",
		TitleTemplates: []string{
			"{topic} — Plan de mise en œuvre",
			"{company} : rapport d'avancement sur {topic}",
			"Note interne : {topic}",
		},
		BodyTemplates: []string{
			"Ce document résume l'état actuel du chantier {topic} chez {company}. Le groupe de travail a passé en revue les points ouverts et validé les étapes décrites ci-dessous.",
			"Dans le cadre des travaux sur {topic}, {company} a regroupé dans ce document les informations d'environnement nécessaires. Merci de les vérifier avant la prochaine réunion.",
			"Le jalon {topic} demande une coordination entre plusieurs équipes de {company}. Les sections suivantes décrivent le périmètre convenu et les paramètres techniques.",
		},
		ConfigHeading: "Détails de configuration",
		credentialLabels: map[string]string{
			"api_key": "Clé API", "token": "Jeton d'accès", "password": "Mot de passe",
			"connection": "Chaîne de connexion", "private_key": "Clé privée",
			"certificate": "Certificat", "webhook": "URL de webhook",
			"secret": "Secret client", "credential": "Identifiant",
		},
		FilenameQualifiers: []string{"rapport", "note", "plan", "synthese"},
	},
	"es": {
		Code: "es",
		SectionTitles: map[string]string{
			"overview": "Resumen general", "background": "Antecedentes", "details": "Detalles",
			"configuration": "Configuración", "implementation": "Implementación",
			"security": "Consideraciones de seguridad", "timeline": "Cronograma",
			"next_steps": "Próximos pasos", "summary": "Resumen", "agenda": "Agenda",
			"budget": "Presupuesto", "contacts": "Contactos", "setup": "Preparación del entorno",
			"notes": "Notas",
		},
		Greeting: "Estimado equipo:",
		Closing:  "Atentamente,",
		TitleTemplates: []string{
			"{topic} — Plan de implementación",
			"{company}: informe de avance de {topic}",
			"Informe interno: {topic}",
		},
		BodyTemplates: []string{
			"Este documento resume el estado actual de la iniciativa {topic} en {company}. El grupo de trabajo revisó los puntos pendientes y acordó los pasos descritos a continuación.",
			"Como parte del trabajo en {topic}, {company} ha consolidado en este documento los datos de entorno pertinentes. Revísenlos antes de la próxima reunión.",
			"El hito de {topic} requiere coordinación entre varios equipos de {company}. Las siguientes secciones recogen el alcance acordado y los parámetros técnicos.",
		},
		ConfigHeading: "Detalles de configuración",
		credentialLabels: map[string]string{
			"api_key": "Clave API", "token": "Token de acceso", "password": "Contraseña",
			"connection": "Cadena de conexión", "private_key": "Clave privada",
			"certificate": "Certificado", "webhook": "URL de webhook",
			"secret": "Secreto de cliente", "credential": "Credencial",
		},
		FilenameQualifiers: []string{"informe", "nota", "plan", "resumen"},
	},
	"de": {
		Code: "de",
		SectionTitles: map[string]string{
			"overview": "Überblick", "background": "Hintergrund", "details": "Einzelheiten",
			"configuration": "Konfiguration", "implementation": "Umsetzung",
			"security": "Sicherheitsaspekte", "timeline": "Zeitplan",
			"next_steps": "Nächste Schritte", "summary": "Zusammenfassung", "agenda": "Tagesordnung",
			"budget": "Budget", "contacts": "Ansprechpartner", "setup": "Umgebungseinrichtung",
			"notes": "Anmerkungen",
		},
		Greeting: "Liebes Team,",
		Closing:  "Mit freundlichen Grüßen,",
		TitleTemplates: []string{
			"{topic} — Umsetzungsplan",
			"{company}: Statusbericht zu {topic}",
			"Interner Vermerk: {topic}",
		},
		BodyTemplates: []string{
			"Dieses Dokument fasst den aktuellen Stand der Initiative {topic} bei {company} zusammen. Die Arbeitsgruppe hat die offenen Punkte geprüft und die folgenden Schritte vereinbart.",
			"Im Rahmen der Arbeiten an {topic} hat {company} die relevanten Umgebungsdaten in diesem Dokument zusammengestellt. Bitte vor dem nächsten Termin prüfen.",
			"Der Meilenstein {topic} erfordert die Abstimmung mehrerer Teams bei {company}. Die folgenden Abschnitte beschreiben den vereinbarten Umfang und die technischen Parameter.",
		},
		ConfigHeading: "Konfigurationsdetails",
		credentialLabels: map[string]string{
			"api_key": "API-Schlüssel", "token": "Zugriffstoken", "password": "Passwort",
			"connection": "Verbindungszeichenfolge", "private_key": "Privater Schlüssel",
			"certificate": "Zertifikat", "webhook": "Webhook-URL",
			"secret": "Client-Geheimnis", "credential": "Zugangsdaten",
		},
		FilenameQualifiers: []string{"bericht", "vermerk", "plan", "uebersicht"},
	},
	"it": {
		Code: "it",
		SectionTitles: map[string]string{
			"overview": "Panoramica", "background": "Contesto", "details": "Dettagli",
			"configuration": "Configurazione", "implementation": "Implementazione",
			"security": "Considerazioni sulla sicurezza", "timeline": "Cronoprogramma",
			"next_steps": "Prossimi passi", "summary": "Riepilogo", "agenda": "Ordine del giorno",
			"budget": "Budget", "contacts": "Contatti", "setup": "Preparazione dell'ambiente",
			"notes": "Note",
		},
		Greeting: "Gentile team,",
		Closing:  "Cordiali saluti,",
		TitleTemplates: []string{
			"{topic} — Piano di implementazione",
			"{company}: rapporto sullo stato di {topic}",
			"Nota interna: {topic}",
		},
		BodyTemplates: []string{
			"Questo documento riassume lo stato attuale dell'iniziativa {topic} presso {company}. Il gruppo di lavoro ha esaminato i punti aperti e concordato i passi descritti di seguito.",
			"Nell'ambito dei lavori su {topic}, {company} ha raccolto in questo documento i dati di ambiente rilevanti. Si prega di verificarli prima del prossimo incontro.",
			"Il traguardo {topic} richiede il coordinamento di più team di {company}. Le sezioni seguenti riportano l'ambito concordato e i parametri tecnici.",
		},
		ConfigHeading: "Dettagli di configurazione",
		credentialLabels: map[string]string{
			"api_key": "Chiave API", "token": "Token di accesso", "password": "Password",
			"connection": "Stringa di connessione", "private_key": "Chiave privata",
			"certificate": "Certificato", "webhook": "URL webhook",
			"secret": "Segreto client", "credential": "Credenziale",
		},
		FilenameQualifiers: []string{"rapporto", "nota", "piano", "riepilogo"},
	},
	"pt": {
		Code: "pt",
		SectionTitles: map[string]string{
			"overview": "Visão geral", "background": "Contexto", "details": "Detalhes",
			"configuration": "Configuração", "implementation": "Implementação",
			"security": "Considerações de segurança", "timeline": "Cronograma",
			"next_steps": "Próximos passos", "summary": "Resumo", "agenda": "Pauta",
			"budget": "Orçamento", "contacts": "Contatos", "setup": "Preparação do ambiente",
			"notes": "Observações",
		},
		Greeting: "Prezada equipe,",
		Closing:  "Atenciosamente,",
		TitleTemplates: []string{
			"{topic} — Plano de implementação",
			"{company}: relatório de progresso de {topic}",
			"Relatório interno: {topic}",
		},
		BodyTemplates: []string{
			"Este documento resume o estado atual da iniciativa {topic} na {company}. O grupo de trabalho revisou os itens pendentes e acordou os passos descritos a seguir.",
			"Como parte do trabalho em {topic}, a {company} consolidou neste documento os dados de ambiente relevantes. Revise-os antes da próxima reunião.",
			"O marco de {topic} exige coordenação entre várias equipes da {company}. As seções a seguir registram o escopo acordado e os parâmetros técnicos.",
		},
		ConfigHeading: "Detalhes de configuração",
		credentialLabels: map[string]string{
			"api_key": "Chave de API", "token": "Token de acesso", "password": "Senha",
			"connection": "String de conexão", "private_key": "Chave privada",
			"certificate": "Certificado", "webhook": "URL de webhook",
			"secret": "Segredo do cliente", "credential": "Credencial",
		},
		FilenameQualifiers: []string{"relatorio", "nota", "plano", "resumo"},
	},
	"nl": {
		Code: "nl",
		SectionTitles: map[string]string{
			"overview": "Overzicht", "background": "Achtergrond", "details": "Bijzonderheden",
			"configuration": "Configuratie", "implementation": "Implementatie",
			"security": "Beveiligingsoverwegingen", "timeline": "Tijdlijn",
			"next_steps": "Volgende stappen", "summary": "Samenvatting", "agenda": "Agenda",
			"budget": "Budget", "contacts": "Contactpersonen", "setup": "Omgevingsinrichting",
			"notes": "Opmerkingen",
		},
		Greeting: "Beste team,",
		Closing:  "Met vriendelijke groet,",
		TitleTemplates: []string{
			"{topic} — Implementatieplan",
			"{company}: voortgangsrapport {topic}",
			"Interne notitie: {topic}",
		},
		BodyTemplates: []string{
			"Dit document vat de huidige stand van het initiatief {topic} bij {company} samen. De werkgroep heeft de openstaande punten beoordeeld en de onderstaande stappen afgesproken.",
			"In het kader van het werk aan {topic} heeft {company} de relevante omgevingsgegevens in dit document samengebracht. Controleer ze vóór het volgende overleg.",
			"De mijlpaal {topic} vraagt om afstemming tussen meerdere teams van {company}. De volgende secties beschrijven de afgesproken scope en de technische parameters.",
		},
		ConfigHeading: "Configuratiegegevens",
		credentialLabels: map[string]string{
			"api_key": "API-sleutel", "token": "Toegangstoken", "password": "Wachtwoord",
			"connection": "Verbindingsreeks", "private_key": "Privésleutel",
			"certificate": "Certificaat", "webhook": "Webhook-URL",
			"secret": "Clientgeheim", "credential": "Inloggegeven",
		},
		FilenameQualifiers: []string{"rapport", "notitie", "plan", "overzicht"},
	},
	"tr": {
		Code: "tr",
		SectionTitles: map[string]string{
			"overview": "Genel bakış", "background": "Arka plan", "details": "Ayrıntılar",
			"configuration": "Yapılandırma", "implementation": "Uygulama",
			"security": "Güvenlik değerlendirmeleri", "timeline": "Zaman çizelgesi",
			"next_steps": "Sonraki adımlar", "summary": "Özet", "agenda": "Gündem",
			"budget": "Bütçe", "contacts": "İletişim kişileri", "setup": "Ortam kurulumu",
			"notes": "Notlar",
		},
		Greeting: "Değerli ekip,",
		Closing:  "Saygılarımla,",
		TitleTemplates: []string{
			"{topic} — Uygulama planı",
			"{company}: {topic} durum raporu",
			"İç rapor: {topic}",
		},
		BodyTemplates: []string{
			"Bu belge, {company} bünyesindeki {topic} girişiminin güncel durumunu özetlemektedir. Çalışma grubu açık maddeleri gözden geçirmiş ve aşağıdaki adımlar üzerinde anlaşmıştır.",
			"{topic} kapsamındaki çalışmaların parçası olarak {company}, ilgili ortam bilgilerini bu belgede toplamıştır. Lütfen bir sonraki toplantıdan önce gözden geçirin.",
			"{topic} kilometre taşı, {company} bünyesindeki birden fazla ekibin eşgüdümünü gerektirmektedir. Aşağıdaki bölümler üzerinde anlaşılan kapsamı ve teknik parametreleri içermektedir.",
		},
		ConfigHeading: "Yapılandırma ayrıntıları",
		credentialLabels: map[string]string{
			"api_key": "API anahtarı", "token": "Erişim belirteci", "password": "Parola",
			"connection": "Bağlantı dizesi", "private_key": "Özel anahtar",
			"certificate": "Sertifika", "webhook": "Webhook adresi",
			"secret": "İstemci gizli anahtarı", "credential": "Kimlik bilgisi",
		},
		FilenameQualifiers: []string{"rapor", "not", "plan", "ozet"},
	},
	"zh": {
		Code: "zh",
		SectionTitles: map[string]string{
			"overview": "概述", "background": "背景", "details": "详细信息",
			"configuration": "配置", "implementation": "实施方案",
			"security": "安全注意事项", "timeline": "时间表",
			"next_steps": "后续步骤", "summary": "总结", "agenda": "议程",
			"budget": "预算", "contacts": "联系人", "setup": "环境准备",
			"notes": "备注",
		},
		Greeting: "各位同事：",
		Closing:  "此致",
		TitleTemplates: []string{
			"{topic}——实施方案",
			"{company}：{topic}进度报告",
			"内部简报：{topic}",
		},
		BodyTemplates: []string{
			"本文档总结了{company}在{topic}项目上的当前进展。工作组已审阅各项待办事项，并就下述步骤达成一致。",
			"作为{topic}相关工作的一部分，{company}已将相关环境信息汇总于本文档，请在下次会议前核对。",
			"{topic}里程碑需要{company}多个团队协同配合。以下各节记录了商定的范围和技术参数。",
		},
		ConfigHeading: "配置详情",
		credentialLabels: map[string]string{
			"api_key": "API密钥", "token": "访问令牌", "password": "密码",
			"connection": "连接字符串", "private_key": "私钥",
			"certificate": "证书", "webhook": "Webhook地址",
			"secret": "客户端密钥", "credential": "凭据",
		},
		FilenameQualifiers: []string{"baogao", "jihua", "jiyao"},
	},
	"ja": {
		Code: "ja",
		SectionTitles: map[string]string{
			"overview": "概要", "background": "背景", "details": "詳細",
			"configuration": "設定", "implementation": "実施計画",
			"security": "セキュリティ上の考慮事項", "timeline": "スケジュール",
			"next_steps": "今後の対応", "summary": "まとめ", "agenda": "議題",
			"budget": "予算", "contacts": "連絡先", "setup": "環境構築",
			"notes": "備考",
		},
		Greeting: "関係各位",
		Closing:  "よろしくお願いいたします。",
		TitleTemplates: []string{
			"{topic}に関する実施計画",
			"{company}：{topic}進捗報告",
			"社内報告書：{topic}",
		},
		BodyTemplates: []string{
			"本書は{company}における{topic}の取り組みの現状をまとめたものです。作業部会は未解決事項を確認し、以下の手順について合意しました。",
			"{topic}に関する作業の一環として、{company}は関連する環境情報を本書に集約しました。次回の打ち合わせまでにご確認ください。",
			"{topic}のマイルストーンには{company}内の複数チームの連携が必要です。以下の各節に合意済みの範囲と技術パラメータを記載します。",
		},
		ConfigHeading: "設定情報",
		credentialLabels: map[string]string{
			"api_key": "APIキー", "token": "アクセストークン", "password": "パスワード",
			"connection": "接続文字列", "private_key": "秘密鍵",
			"certificate": "証明書", "webhook": "Webhook URL",
			"secret": "クライアントシークレット", "credential": "認証情報",
		},
		FilenameQualifiers: []string{"houkoku", "keikaku", "memo"},
	},
}
