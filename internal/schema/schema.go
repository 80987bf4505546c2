// Package schema diagnoses remote schema drift. When the PostgREST backend
// rejects a request because a column, relationship, function, or security
// policy is missing, the error is mapped to a remediation: a SQL script the
// operator runs against the project, plus a checklist of manual steps.
package schema

import (
	"embed"
	"strings"

	"feuilletemps/internal/gateway"
)

// Migrations holds the numbered SQL files consumed by the migrate command.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the path of the embedded migration files.
const MigrationsDir = "migrations"

// Remediation codes. Each names a known drift state of the remote schema.
const (
	CodeDefault             = "default"
	CodeMissingRelationship = "PGRST200"
	CodeStatusColumnMissing = "STATUS_COLUMN_MISSING"
	CodeMissingTodoList     = "MISSING_TODO_LIST"
	CodeTimesheetRLSMissing = "TIMESHEET_RLS_MISSING"
	CodeSchemaCache         = "SCHEMA_CACHE_ERROR"
)

// Remediation describes one repair: what went wrong, the script that fixes
// it, and the steps the operator follows in the project dashboard.
type Remediation struct {
	Code        string   `json:"code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Script      string   `json:"script"`
	Checklist   []string `json:"checklist"`
}

var defaultChecklist = []string{
	"Ouvrez votre projet Supabase.",
	"Dans le menu de gauche, cliquez sur SQL Editor.",
	"Copiez le script ci-dessus et collez-le dans l'éditeur.",
	"Cliquez sur le bouton RUN.",
	"Relancez l'opération depuis l'application.",
}

// For returns the remediation for a code, falling back to the default entry
// for unknown codes.
func For(code string) Remediation {
	if r, ok := remediations[code]; ok {
		return r
	}
	return remediations[CodeDefault]
}

// CodeFor inspects a remote error and picks the remediation code, mirroring
// the order the drift states were introduced: the most specific signal wins.
func CodeFor(err error) string {
	msg := gateway.MessageOf(err)
	code := ""
	if ge := gateway.AsError(err); ge != nil {
		code = ge.Code
	}

	switch {
	case strings.Contains(msg, "schema cache"):
		return CodeSchemaCache
	case strings.Contains(msg, "todo_list") || strings.Contains(msg, "todo_status"):
		return CodeMissingTodoList
	case strings.Contains(msg, `column "status"`):
		return CodeStatusColumnMissing
	case code == "PGRST200" || strings.Contains(msg, "Could not find a relationship"):
		return CodeMissingRelationship
	case strings.Contains(msg, "security policy") && strings.Contains(msg, "timesheets"),
		strings.Contains(msg, "function is_admin() does not exist"):
		return CodeTimesheetRLSMissing
	case code == "42703":
		return CodeMissingTodoList
	default:
		return CodeDefault
	}
}

var remediations = map[string]Remediation{
	CodeDefault: {
		Code:        CodeDefault,
		Title:       "Mise à Jour de la Base de Données Requise (v1)",
		Description: "L'application a été mise à jour avec des fonctionnalités de validation de tâches qui nécessitent une modification de la structure de votre base de données.",
		Checklist:   defaultChecklist,
		Script: `-- Ce script met à jour votre table 'chargeable_tasks' pour la nouvelle fonctionnalité de validation des tâches.

-- Ajoute une colonne 'status' pour suivre l'état d'approbation des tâches.
-- La valeur par défaut 'approved' est appliquée aux tâches existantes.
ALTER TABLE public.chargeable_tasks
ADD COLUMN IF NOT EXISTS status TEXT NOT NULL DEFAULT 'approved';

-- Ajoute une colonne 'proposed_by' pour lier à l'utilisateur qui a soumis la tâche.
ALTER TABLE public.chargeable_tasks
ADD COLUMN IF NOT EXISTS proposed_by UUID REFERENCES auth.users(id);
`,
	},
	CodeMissingRelationship: {
		Code:        CodeMissingRelationship,
		Title:       "Correction de la Base de Données Requise (v2)",
		Description: "Une relation est manquante dans votre base de données, ce qui empêche l'affichage du nom des personnes qui proposent des tâches. Ce script va corriger cette relation.",
		Checklist:   defaultChecklist,
		Script: `-- SCRIPT DE CORRECTION (v2)
-- Ce script corrige la relation manquante entre 'chargeable_tasks' et 'profiles'.

-- ÉTAPE 1: Assurer que la colonne 'proposed_by' existe.
ALTER TABLE public.chargeable_tasks
ADD COLUMN IF NOT EXISTS proposed_by UUID;

-- ÉTAPE 2: Supprimer l'ancienne contrainte incorrecte si elle existe.
-- L'ancienne contrainte pointait vers 'auth.users'. Nous la supprimons.
ALTER TABLE public.chargeable_tasks
DROP CONSTRAINT IF EXISTS chargeable_tasks_proposed_by_fkey;

-- ÉTAPE 3: Créer la nouvelle contrainte correcte pointant vers 'profiles'.
ALTER TABLE public.chargeable_tasks
ADD CONSTRAINT chargeable_tasks_proposed_by_fkey
FOREIGN KEY (proposed_by)
REFERENCES public.profiles(id);
`,
	},
	CodeStatusColumnMissing: {
		Code:        CodeStatusColumnMissing,
		Title:       "Mise à Jour de la Base de Données Requise (v3)",
		Description: "L'application a été mise à jour avec un flux de validation des feuilles de temps. Cela nécessite d'ajouter une colonne 'status' à votre table 'timesheets'.",
		Checklist:   defaultChecklist,
		Script: `-- Ce script ajoute la colonne 'status' pour le flux de validation.

-- La valeur par défaut 'draft' (brouillon) est appliquée à toutes les fiches existantes.
ALTER TABLE public.timesheets
ADD COLUMN IF NOT EXISTS status TEXT NOT NULL DEFAULT 'draft';
`,
	},
	CodeMissingTodoList: {
		Code:        CodeMissingTodoList,
		Title:       "Mise à Jour de la Base de Données Requise (v5)",
		Description: "L'application a été mise à jour avec une liste de choses à faire hebdomadaire. Cela nécessite d'ajouter les colonnes 'todo_list' et 'todo_status' à votre table 'timesheets'.",
		Checklist:   defaultChecklist,
		Script: `-- Ce script ajoute les colonnes de la liste de choses à faire.

ALTER TABLE public.timesheets
ADD COLUMN IF NOT EXISTS todo_list JSONB NOT NULL DEFAULT '[]'::jsonb;

ALTER TABLE public.timesheets
ADD COLUMN IF NOT EXISTS todo_status TEXT NOT NULL DEFAULT 'draft';

-- Forcer l'API à recharger son cache.
NOTIFY pgrst, 'reload schema';
`,
	},
	CodeTimesheetRLSMissing: {
		Code:        CodeTimesheetRLSMissing,
		Title:       "Mise à Jour de la Sécurité Requise (v4)",
		Description: "L'application a détecté une erreur de permission lors de la mise à jour d'une feuille de temps. Cela est dû à des règles de sécurité (Row Level Security) manquantes ou incorrectes sur la table 'timesheets'. Ce script complet va corriger le problème.",
		Checklist:   defaultChecklist,
		Script: `-- =================================================================
-- SCRIPT DE SÉCURITÉ COMPLET POUR LA TABLE 'timesheets' (v4)
--
-- Ce script :
-- 1. Crée la fonction 'is_admin()' nécessaire pour les règles de sécurité.
-- 2. Nettoie les anciennes règles sur 'timesheets'.
-- 3. Applique les permissions correctes pour le flux de validation.
-- =================================================================

-- ÉTAPE 1: Création d'une fonction sécurisée pour vérifier le rôle admin.
-- 'SECURITY DEFINER' exécute la fonction avec les droits du créateur
-- (postgres) et non de l'utilisateur appelant, ce qui empêche la récursion.
CREATE OR REPLACE FUNCTION public.is_admin()
RETURNS boolean
LANGUAGE plpgsql
SECURITY DEFINER
SET search_path = public
AS $$
BEGIN
  RETURN EXISTS (
    SELECT 1 FROM profiles WHERE id = auth.uid() AND role = 'admin'
  );
END;
$$;

-- ÉTAPE 2: Activation de la Sécurité au Niveau des Lignes (RLS) sur la table.
ALTER TABLE public.timesheets ENABLE ROW LEVEL SECURITY;

-- ÉTAPE 3: Suppression de TOUTES les anciennes politiques pour un état propre.
DO $$
DECLARE
    r RECORD;
BEGIN
    FOR r IN (SELECT policyname FROM pg_policies WHERE tablename = 'timesheets' AND schemaname = 'public') LOOP
        EXECUTE 'DROP POLICY IF EXISTS ' || quote_ident(r.policyname) || ' ON public.timesheets;';
    END LOOP;
END $$;

-- ÉTAPE 4: Lecture. Les admins voient tout, les employés leurs propres feuilles.
CREATE POLICY "policy_select_timesheets"
ON public.timesheets FOR SELECT TO authenticated
USING (public.is_admin() OR (auth.uid() = employee_id));

-- ÉTAPE 5: Écriture. Un utilisateur ne crée une feuille que pour lui-même.
CREATE POLICY "policy_insert_timesheets"
ON public.timesheets FOR INSERT TO authenticated
WITH CHECK (auth.uid() = employee_id);

-- ÉTAPE 6a: Les employés ne modifient que leurs feuilles en brouillon.
CREATE POLICY "policy_update_own_draft_timesheets"
ON public.timesheets FOR UPDATE TO authenticated
USING ( (NOT public.is_admin()) AND (auth.uid() = employee_id) AND (status = 'draft') )
WITH CHECK ( (auth.uid() = employee_id) );

-- ÉTAPE 6b: Les admins modifient toute feuille, quel que soit son statut.
CREATE POLICY "policy_update_any_timesheet_for_admins"
ON public.timesheets FOR UPDATE TO authenticated
USING (public.is_admin())
WITH CHECK (public.is_admin());

-- ÉTAPE 7: Seuls les admins suppriment des feuilles de temps.
CREATE POLICY "policy_delete_timesheets_for_admins"
ON public.timesheets FOR DELETE TO authenticated
USING (public.is_admin());
`,
	},
	CodeSchemaCache: {
		Code:        CodeSchemaCache,
		Title:       "Réparation Ultime Requise (v7)",
		Description: "L'application a détecté une erreur de synchronisation persistante entre la base de données et l'API. Ce script va réinitialiser les permissions et forcer la synchronisation pour résoudre le problème.",
		Checklist: append(defaultChecklist[:4:4],
			"Si l'erreur persiste, faites Pause puis Restore du projet depuis le dashboard (Project Settings -> General) pour forcer un redémarrage complet de l'API.",
			"Relancez l'opération depuis l'application.",
		),
		Script: `-- =================================================================
-- SCRIPT DE RÉPARATION ULTIME (v7) - Problème de Cache & Permissions
--
-- Exécutez ce script si vous êtes bloqué par l'erreur "Could not find the 'status' column".
-- =================================================================

-- ÉTAPE 1: Assurer que la colonne 'status' existe dans la table 'timesheets'.
ALTER TABLE public.timesheets
ADD COLUMN IF NOT EXISTS status TEXT NOT NULL DEFAULT 'draft';

-- ÉTAPE 2: Recréation de la fonction sécurisée 'is_admin()'.
CREATE OR REPLACE FUNCTION public.is_admin()
RETURNS boolean
LANGUAGE plpgsql
SECURITY DEFINER
SET search_path = public
AS $$
BEGIN
  RETURN EXISTS (
    SELECT 1 FROM profiles WHERE id = auth.uid() AND role = 'admin'
  );
END;
$$;

-- ÉTAPE 3: Nettoyage et réinitialisation complète de la RLS.
DO $$
DECLARE
    r RECORD;
BEGIN
    FOR r IN (SELECT policyname FROM pg_policies WHERE tablename = 'timesheets' AND schemaname = 'public') LOOP
        EXECUTE 'DROP POLICY IF EXISTS ' || quote_ident(r.policyname) || ' ON public.timesheets;';
    END LOOP;
END $$;

ALTER TABLE public.timesheets DISABLE ROW LEVEL SECURITY;
ALTER TABLE public.timesheets ENABLE ROW LEVEL SECURITY;

-- ÉTAPE 4: Application des nouvelles politiques de sécurité.
CREATE POLICY "policy_select_timesheets" ON public.timesheets FOR SELECT TO authenticated USING (public.is_admin() OR (auth.uid() = employee_id));
CREATE POLICY "policy_insert_timesheets" ON public.timesheets FOR INSERT TO authenticated WITH CHECK (auth.uid() = employee_id);
CREATE POLICY "policy_update_own_draft_timesheets" ON public.timesheets FOR UPDATE TO authenticated USING ( (NOT public.is_admin()) AND (auth.uid() = employee_id) AND (status = 'draft') ) WITH CHECK ( (auth.uid() = employee_id) );
CREATE POLICY "policy_update_any_timesheet_for_admins" ON public.timesheets FOR UPDATE TO authenticated USING (public.is_admin()) WITH CHECK (public.is_admin());
CREATE POLICY "policy_delete_timesheets_for_admins" ON public.timesheets FOR DELETE TO authenticated USING (public.is_admin());

-- ÉTAPE 5: Forcer le rechargement du cache de l'API.
NOTIFY pgrst, 'reload schema';
`,
	},
}
